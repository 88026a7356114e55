package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/yungbote/nexuslearn-backend/internal/services"
)

var seedAdminOpts struct {
	username string
	email    string
	password string
}

// seedAdminCmd creates the admin account or promotes an existing user.
var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create or promote the admin account",
	Long: `Create the admin account, or promote an existing user with the same
username to admin. Flags default to ADMIN_USERNAME, ADMIN_EMAIL and ADMIN_PASSWORD.`,
	RunE: runSeedAdmin,
}

func init() {
	seedAdminCmd.Flags().StringVar(&seedAdminOpts.username, "username", "", "admin username")
	seedAdminCmd.Flags().StringVar(&seedAdminOpts.email, "email", "", "admin email")
	seedAdminCmd.Flags().StringVar(&seedAdminOpts.password, "password", "", "admin password")
}

func runSeedAdmin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	in := services.SignupInput{
		Username: firstSet(seedAdminOpts.username, e.cfg.Admin.Username),
		Email:    firstSet(seedAdminOpts.email, e.cfg.Admin.Email),
		Password: firstSet(seedAdminOpts.password, e.cfg.Admin.Password),
	}
	if in.Username == "" || in.Password == "" {
		return fail("username and password are required (flags or ADMIN_* env)")
	}

	auth := services.NewAuthService(e.db.DB(), e.log, e.users, e.cfg.JWTSecretKey, e.cfg.AccessTokenTTL)
	u, created, err := auth.EnsureAdmin(ctx, in)
	if err != nil {
		return err
	}
	if created {
		color.Green("created admin %s (%s)", u.Username, u.ID)
	} else {
		color.Yellow("promoted existing user %s to admin", u.Username)
	}
	return nil
}

func firstSet(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
