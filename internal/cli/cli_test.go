package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/devcheck/devcheck-be/internal/config"
	"github.com/devcheck/devcheck-be/internal/database"
	"github.com/devcheck/devcheck-be/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DatabasePath: filepath.Join(t.TempDir(), "devcheck.db"),
		Superuser: config.SuperuserConfig{
			Username: "admin",
			Email:    "admin@example.com",
			Password: "admin",
		},
	}
}

func execute(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd(cfg)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrateCmd(t *testing.T) {
	cfg := testConfig(t)

	out, err := execute(t, cfg, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")

	db, err := database.New(cfg.DatabasePath)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'tasks'").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestCreateSuperuserCmd_Idempotent(t *testing.T) {
	cfg := testConfig(t)

	out, err := execute(t, cfg, "createsuperuser", "--username", "root", "--password", "toor")
	require.NoError(t, err)
	assert.Contains(t, out, `"root" created`)

	out, err = execute(t, cfg, "createsuperuser", "--username", "root", "--password", "other")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")

	db, err := database.New(cfg.DatabasePath)
	require.NoError(t, err)
	defer db.Close()

	u, err := services.NewUserService(db).AuthenticateUser(context.Background(), "root", "toor")
	require.NoError(t, err)
	assert.True(t, u.IsStaff)
}

func TestCreateSuperuserCmd_RequiresPassword(t *testing.T) {
	cfg := testConfig(t)
	cfg.Superuser.Password = ""

	_, err := execute(t, cfg, "createsuperuser")
	assert.Error(t, err)
}

func TestBootstrapSuperuser(t *testing.T) {
	cfg := testConfig(t)
	db, err := openDB(cfg)
	require.NoError(t, err)
	defer db.Close()
	users := services.NewUserService(db).WithHashCost(bcrypt.MinCost)

	require.NoError(t, bootstrapSuperuser(context.Background(), users, cfg.Superuser))
	require.NoError(t, bootstrapSuperuser(context.Background(), users, cfg.Superuser))

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users WHERE is_staff = 1").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestBootstrapSuperuser_NoDefaultPassword(t *testing.T) {
	cfg := testConfig(t)
	cfg.Superuser.Password = ""
	db, err := openDB(cfg)
	require.NoError(t, err)
	defer db.Close()

	err = bootstrapSuperuser(context.Background(), services.NewUserService(db), cfg.Superuser)
	assert.Error(t, err)

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users").Scan(&n))
	assert.Equal(t, 0, n)
}
