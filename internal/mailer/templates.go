package mailer

import (
	"fmt"
	"html"
)

func emailWrapper(content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background: #3B82F6; color: white; padding: 30px; text-align: center; border-radius: 8px 8px 0 0;">
    <h1 style="margin: 0; font-size: 32px;">K9 Vision</h1>
    <p style="margin: 10px 0 0 0; font-size: 18px;">Dog Training Services</p>
  </div>
  <div style="background: white; padding: 30px; border: 1px solid #e5e7eb; border-top: none; border-radius: 0 0 8px 8px;">
    %s
  </div>
</body>
</html>`, content)
}

func button(url string, label string) string {
	return fmt.Sprintf(`<div style="text-align: center; margin: 30px 0;">
      <a href="%s" style="background: #3B82F6; color: white; padding: 12px 30px; text-decoration: none; border-radius: 6px; display: inline-block; font-weight: bold;">%s</a>
    </div>`, url, label)
}

func inviteEmailHTML(clientName string, dogName string, setupURL string) string {
	return emailWrapper(fmt.Sprintf(`
    <h2 style="color: #3B82F6;">You're Invited!</h2>
    <p>Hello %s,</p>
    <p>Welcome to the K9 Vision family! To get started, please take a quick moment to set up your account so we can track %s's training together.</p>
    %s
    <p style="font-size: 14px; color: #6b7280;">This invite link expires in 7 days. If it has expired, please contact your trainer to send a new one.</p>`,
		html.EscapeString(clientName), html.EscapeString(dogName),
		button(setupURL, "Set up your account")))
}

func verificationEmailHTML(clientName string, verifyURL string) string {
	return emailWrapper(fmt.Sprintf(`
    <h2 style="color: #3B82F6;">Verify Your Email</h2>
    <p>Hello %s,</p>
    <p>Welcome to the K9 Vision family! To make sure we have a clear line of communication, please verify your email address.</p>
    %s
    <p style="font-size: 14px; color: #6b7280;">This verification link expires in 24 hours. If it has expired, simply register again.</p>`,
		html.EscapeString(clientName),
		button(verifyURL, "Verify your email")))
}

func resetEmailHTML(resetURL string, adminTriggered bool) string {
	intro := "We received a request to reset your password."
	if adminTriggered {
		intro = "Your trainer has initiated a password reset for your account."
	}
	return emailWrapper(fmt.Sprintf(`
    <h2 style="color: #3B82F6;">Reset Your Password</h2>
    <p>%s</p>
    %s
    <p style="font-size: 14px; color: #6b7280;">This link expires in 1 hour. If you did not request a reset, you can safely ignore this email.</p>`,
		intro, button(resetURL, "Reset your password")))
}

func invoiceEmailHTML(clientName string, invoiceID int64, total float64) string {
	return emailWrapper(fmt.Sprintf(`
    <h2 style="color: #3B82F6;">Invoice #%d</h2>
    <p>Hello %s,</p>
    <p>Your invoice for <strong>$%.2f</strong> is ready. Please log in to your account to view the details.</p>`,
		invoiceID, html.EscapeString(clientName), total))
}

func contactEmailHTML(name string, email string, message string) string {
	return emailWrapper(fmt.Sprintf(`
    <h2 style="color: #3B82F6;">New Contact Form Message</h2>
    <p><strong>From:</strong> %s (%s)</p>
    <p>%s</p>`,
		html.EscapeString(name), html.EscapeString(email), html.EscapeString(message)))
}
