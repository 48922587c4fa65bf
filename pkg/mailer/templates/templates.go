package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

// TemplateVerifyCode renders the sign-up verification code email.
const TemplateVerifyCode = "verify_code"

var verifyCodeHTML = template.Must(template.New(TemplateVerifyCode).Parse(`
<html>
  <body style="font-family: Arial, sans-serif; color: #222;">
    <h2>Confirm your email</h2>
    <p>Hi {{.Name}},</p>
    <p>Use the code below to verify your account:</p>
    <p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">{{.Code}}</p>
    <p>The code expires in {{.ExpiresIn}}.</p>
    <p>If you did not sign up, you can ignore this email.</p>
  </body>
</html>
`))

// Render produces subject, text and html bodies for the named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	switch name {
	case TemplateVerifyCode:
		var buf bytes.Buffer
		if err = verifyCodeHTML.Execute(&buf, data); err != nil {
			return "", "", "", err
		}
		subject = "Verify your email address"
		text = fmt.Sprintf("Your verification code is %v. It expires in %v.", data["Code"], data["ExpiresIn"])
		return subject, text, buf.String(), nil
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
}
