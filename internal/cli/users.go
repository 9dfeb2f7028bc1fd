package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/myfit/internal/services"
)

func newCreateUserCommand(state *command) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an account, prompting for its password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := promptNewPassword(state.stdin, state.stdout)
			if err != nil {
				return err
			}

			rt, err := openRuntime(state.cfg, state.stderr)
			if err != nil {
				return err
			}
			defer func() {
				_ = rt.close()
			}()

			user, err := rt.deps.Auth.Register(email, password)
			if err != nil {
				switch {
				case errors.Is(err, services.ErrAuthCredentialsInvalid):
					return fmt.Errorf("invalid email address %q", email)
				case errors.Is(err, services.ErrWeakPassword):
					return errors.New("password must be 8-72 bytes with upper case, lower case and a digit")
				case errors.Is(err, services.ErrAuthEmailExists):
					return fmt.Errorf("user %s already exists", strings.TrimSpace(email))
				default:
					return err
				}
			}

			fmt.Fprintf(state.stdout, "Created user %s (id %d)\n", user.Email, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newResetPasswordCommand(state *command) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Replace a user's password with a temporary one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(state.cfg, state.stderr)
			if err != nil {
				return err
			}
			defer func() {
				_ = rt.close()
			}()

			temporaryPassword, err := rt.deps.Auth.ResetPassword(email)
			if err != nil {
				return userLookupError(email, err)
			}

			fmt.Fprintln(state.stdout, "Password reset successful")
			fmt.Fprintf(state.stdout, "Temporary password: %s\n", temporaryPassword)
			fmt.Fprintln(state.stdout, "User must change password on next login.")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func userLookupError(email string, err error) error {
	switch {
	case errors.Is(err, services.ErrAuthCredentialsInvalid):
		return fmt.Errorf("invalid email address %q", email)
	case errors.Is(err, services.ErrAuthUserNotFound):
		return fmt.Errorf("user %s not found", strings.ToLower(strings.TrimSpace(email)))
	default:
		return err
	}
}
