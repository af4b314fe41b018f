// Package mail provides the outbound-email side of the server: the SMTP
// client and the plain-text messages the engine sends.
package mail

import "fmt"

// VerificationMessage builds the email asking a new user to verify their
// address. The link embeds the one-shot token in plaintext; only its digest
// exists server-side.
func VerificationMessage(appURL, token string) (subject, body string) {
	subject = "Verify your email"
	body = fmt.Sprintf(
		"Welcome!\n\n"+
			"Please confirm your email address by opening the link below:\n\n"+
			"%s/verify-email?token=%s\n\n"+
			"The link is valid for 10 minutes. If you did not create an account, you can ignore this message.\n",
		appURL, token)
	return subject, body
}

// PasswordResetMessage builds the password-reset email.
func PasswordResetMessage(appURL, token string) (subject, body string) {
	subject = "Reset your password"
	body = fmt.Sprintf(
		"A password reset was requested for your account.\n\n"+
			"To choose a new password, open the link below:\n\n"+
			"%s/reset-password?token=%s\n\n"+
			"The link is valid for 10 minutes. If you did not request a reset, you can ignore this message.\n",
		appURL, token)
	return subject, body
}
