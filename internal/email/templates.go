package email

import "fmt"

// VerificationEmail builds the email-verification message.
func VerificationEmail(to, frontendURL, token string) *Message {
	link := fmt.Sprintf("%s/verify-email?token=%s", frontendURL, token)
	return &Message{
		To:      to,
		Subject: "Verify your Talent Hub email address",
		Body: fmt.Sprintf(`Welcome to Talent Hub!

Please confirm your email address by opening the link below:

%s

The link expires in 48 hours. If you did not create an account, you can ignore this email.
`, link),
	}
}

// PasswordResetEmail builds the password-reset message.
func PasswordResetEmail(to, frontendURL, token string) *Message {
	link := fmt.Sprintf("%s/reset-password?token=%s", frontendURL, token)
	return &Message{
		To:      to,
		Subject: "Reset your Talent Hub password",
		Body: fmt.Sprintf(`A password reset was requested for your Talent Hub account.

Open the link below to choose a new password:

%s

The link expires in 30 minutes and can be used once. If you did not request a reset, you can ignore this email.
`, link),
	}
}

// ApplicationStatusEmail notifies a graduate about an application status change.
func ApplicationStatusEmail(to, jobTitle, companyName, status string) *Message {
	return &Message{
		To:      to,
		Subject: fmt.Sprintf("Update on your application for %s", jobTitle),
		Body: fmt.Sprintf(`Your application for "%s" at %s is now: %s.

Sign in to Talent Hub to see the details.
`, jobTitle, companyName, status),
	}
}

// InterviewEmail notifies a graduate about a scheduled interview.
func InterviewEmail(to, jobTitle, companyName, when string) *Message {
	return &Message{
		To:      to,
		Subject: fmt.Sprintf("Interview scheduled: %s", jobTitle),
		Body: fmt.Sprintf(`An interview for "%s" at %s has been scheduled for %s.

Sign in to Talent Hub to see the details and meeting link.
`, jobTitle, companyName, when),
	}
}

// OfferEmail notifies a graduate about a job offer.
func OfferEmail(to, jobTitle, companyName string) *Message {
	return &Message{
		To:      to,
		Subject: fmt.Sprintf("You have an offer from %s", companyName),
		Body: fmt.Sprintf(`Congratulations! %s has extended you an offer for "%s".

Sign in to Talent Hub to review and respond.
`, companyName, jobTitle),
	}
}
