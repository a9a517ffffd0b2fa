package main

import (
	"fmt"

	"rutanagenda/contexts/identity-access/user-service/application/commands"
	"rutanagenda/contexts/identity-access/user-service/domain/entities"
	"rutanagenda/internal/app/bootstrap"

	"github.com/spf13/cobra"
)

// cliActor stands in for a signed-in facility head when accounts are
// managed from the shell.
var cliActor = entities.Actor{
	UserID: "admin-cli",
	Name:   "admin-cli",
	Role:   entities.RoleFacilityHead,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := bootstrap.BuildAdmin()
		if err != nil {
			return err
		}
		defer app.Close()
		if err := app.Migrate(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the first facility head",
	Long: `Create the first kepala_rutan account from SEED_ADMIN_NAME, SEED_ADMIN_EMAIL,
SEED_ADMIN_PASSWORD and SEED_ADMIN_PHONE. Does nothing when a facility head exists.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := bootstrap.BuildAdmin()
		if err != nil {
			return err
		}
		defer app.Close()
		result, err := app.Seed(cmd.Context())
		if err != nil {
			return err
		}
		if !result.Created {
			fmt.Fprintln(cmd.OutOrStdout(), "facility head already exists, nothing to do")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created facility head %s (%s)\n", result.User.Email, result.User.UserID)
		return nil
	},
}

var createUserFlags struct {
	name     string
	email    string
	password string
	role     string
	seksi    string
	phone    string
}

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Add a leadership account",
	RunE:  runCreateUser,
}

func init() {
	flags := createUserCmd.Flags()
	flags.StringVar(&createUserFlags.name, "name", "", "display name")
	flags.StringVar(&createUserFlags.email, "email", "", "login email")
	flags.StringVar(&createUserFlags.password, "password", "", "initial password (min 6 characters)")
	flags.StringVar(&createUserFlags.role, "role", string(entities.RoleSectionHead), "kepala_rutan, kepala_seksi or kepala")
	flags.StringVar(&createUserFlags.seksi, "seksi", "", "section name, required for kepala_seksi")
	flags.StringVar(&createUserFlags.phone, "phone", "", "WhatsApp number")
	_ = createUserCmd.MarkFlagRequired("name")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")
	_ = createUserCmd.MarkFlagRequired("phone")
}

func runCreateUser(cmd *cobra.Command, _ []string) error {
	app, err := bootstrap.BuildAdmin()
	if err != nil {
		return err
	}
	defer app.Close()

	user, err := app.Users.Handler.CreateUser.Execute(cmd.Context(), commands.CreateUserCommand{
		Actor:       cliActor,
		Name:        createUserFlags.name,
		Email:       createUserFlags.email,
		Password:    createUserFlags.password,
		Role:        createUserFlags.role,
		SeksiName:   createUserFlags.seksi,
		PhoneNumber: createUserFlags.phone,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", user.Role, user.Email, user.UserID)
	return nil
}
