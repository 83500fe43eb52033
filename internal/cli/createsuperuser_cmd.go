package cli

import (
	"fmt"

	"github.com/devcheck/devcheck-be/internal/config"
	"github.com/devcheck/devcheck-be/internal/services"
	"github.com/spf13/cobra"
)

func newCreateSuperuserCmd(cfg *config.Config) *cobra.Command {
	su := cfg.Superuser

	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create a staff account unless the username is taken",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			created, err := services.NewUserService(db).EnsureSuperuser(cmd.Context(), su.Username, su.Email, su.Password)
			if err != nil {
				return fmt.Errorf("creating superuser: %w", err)
			}

			out := cmd.OutOrStdout()
			if created {
				fmt.Fprintf(out, "Superuser %q created\n", su.Username)
			} else {
				fmt.Fprintf(out, "Superuser %q already exists\n", su.Username)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&su.Username, "username", su.Username, "account username")
	cmd.Flags().StringVar(&su.Email, "email", su.Email, "account email")
	cmd.Flags().StringVar(&su.Password, "password", su.Password, "account password")

	return cmd
}
