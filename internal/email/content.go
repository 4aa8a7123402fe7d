package email

import (
	"strconv"
	"strings"
)

const verificationHTML = "<h3>Email Verification</h3>" +
	"<p>Click the link below to verify your email:</p>" +
	"<a href=\"{link}\">{link}</a>"

const otpHTML = "<h3>Password Reset</h3>" +
	"<p>Your OTP is: <b>{otp}</b></p>" +
	"<p>This OTP will expire in {minutes} minutes.</p>"

// VerificationMessage builds the signup verification mail carrying the
// one-time link.
func VerificationMessage(to, link string) Message {
	return Message{
		To:      to,
		Subject: "Verify your account",
		HTML:    strings.ReplaceAll(verificationHTML, "{link}", link),
	}
}

// OTPMessage builds the password-reset mail carrying the one-time code
// and its validity window in minutes.
func OTPMessage(to, otp string, minutes int) Message {
	html := strings.ReplaceAll(otpHTML, "{otp}", otp)
	html = strings.ReplaceAll(html, "{minutes}", strconv.Itoa(minutes))
	return Message{
		To:      to,
		Subject: "Password Reset OTP",
		HTML:    html,
	}
}
