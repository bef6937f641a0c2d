package cli

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

// profileFlags are the personal-information flags shared by register and edit
type profileFlags struct {
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	PrimaryContactName   string `json:"primary_contact_name"`
	PrimaryPhone         string `json:"primary_phone"`
	SecondaryContactName string `json:"secondary_contact_name,omitempty"`
	SecondaryPhone       string `json:"secondary_phone,omitempty"`
	Email                string `json:"email,omitempty"`
	Message              string `json:"message,omitempty"`
	Photo                string `json:"photo,omitempty"`

	photoPath string
}

func (p *profileFlags) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&p.FirstName, "first-name", "", "First name")
	f.StringVar(&p.LastName, "last-name", "", "Last name")
	f.StringVar(&p.PrimaryContactName, "contact", "", "Primary contact name")
	f.StringVar(&p.PrimaryPhone, "phone", "", "Primary contact phone")
	f.StringVar(&p.SecondaryContactName, "contact2", "", "Alternative contact name")
	f.StringVar(&p.SecondaryPhone, "phone2", "", "Alternative contact phone")
	f.StringVar(&p.Email, "email", "", "Email for alerts")
	f.StringVar(&p.Message, "message", "", "Emergency message shown on the profile")
	f.StringVar(&p.photoPath, "photo", "", "Path to a profile photo (JPEG, PNG, GIF or WebP)")
}

// loadPhoto reads --photo into a data URI. The server checks the content again.
func (p *profileFlags) loadPhoto() error {
	if p.photoPath == "" {
		return nil
	}
	data, err := os.ReadFile(p.photoPath)
	if err != nil {
		return fmt.Errorf("failed to read photo: %w", err)
	}
	p.Photo = "data:" + http.DetectContentType(data) + ";base64," + base64.StdEncoding.EncodeToString(data)
	return nil
}

func newRegisterCmd() *cobra.Command {
	var id, user, pass string
	var profile profileFlags

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Activate a bracelet with an owner account and profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := profile.loadPhoto(); err != nil {
				return err
			}

			req := map[string]any{
				"id":       id,
				"username": user,
				"password": pass,
				"profile":  profile,
			}
			var result Committed
			if err := client.Post(cmd.Context(), "/api/v1/registrations", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Bracelet ID (required)")
	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")
	profile.bind(cmd)

	return cmd
}

func newEditCmd() *cobra.Command {
	var profile profileFlags

	cmd := &cobra.Command{
		Use:   "edit <bracelet-id>",
		Short: "Replace the profile of a bracelet you own",
		Long: `Replace the profile of a bracelet you own.

Every personal field is replaced by the flags given. Without --photo the
stored photo is kept. Requires a prior login.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Token == "" {
				return fmt.Errorf("not logged in, run 'ofelia login' first")
			}
			if err := profile.loadPhoto(); err != nil {
				return err
			}

			var result Committed
			if err := client.Put(cmd.Context(), "/api/v1/profiles/"+url.PathEscape(args[0]), profile, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	profile.bind(cmd)
	return cmd
}
