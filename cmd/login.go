package cmd

import (
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/copypastelearn/cpl/api"
	"github.com/copypastelearn/cpl/constant"
	"github.com/copypastelearn/cpl/icon"
	"github.com/copypastelearn/cpl/log"
	"github.com/copypastelearn/cpl/open"
	"github.com/copypastelearn/cpl/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)

	loginCmd.Flags().BoolP("browser", "b", false, "Open the website to create a token first")
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with an access token",
	Long: `Sign in with an access token.
The token is stored in the system keyring.`,
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("browser")) {
			if err := open.Start(constant.Website); err != nil {
				log.Warnf("open %s: %v", constant.Website, err)
			}
		}

		var token string
		err := survey.AskOne(&survey.Password{
			Message: "Access token:",
			Help:    "Create one in your account settings at " + constant.Website,
		}, &token, survey.WithValidator(survey.Required))
		handleErr(err)

		token = strings.TrimSpace(token)
		handleErr(tokens.Save(token))

		// A rejected token signs out again through the client.
		dashboard, err := newClient().Dashboard(cmd.Context())
		if api.IsAuth(err) {
			handleErr(err)
		}
		if err != nil {
			log.Warnf("verify token: %v", err)
			cmd.Printf("%s Token saved\n", icon.Get(icon.Success))
			return
		}

		name := "there"
		if dashboard.UserName != nil {
			name = *dashboard.UserName
		}
		cmd.Printf("%s Signed in. Hi, %s\n", icon.Get(icon.Success), style.Bold(name))
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored access token",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(tokens.SignOut())
		cmd.Printf("%s Signed out\n", icon.Get(icon.Success))
	},
}
