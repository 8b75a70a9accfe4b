package templates

import (
	"bytes"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
)

const (
	VerifyEmail = "verify_email"
	Welcome     = "welcome"
)

type rendered struct {
	subject string
	text    string
	html    string
}

var subjects = map[string]string{
	VerifyEmail: "Verify your email address",
	Welcome:     "Welcome aboard",
}

var textBodies = map[string]string{
	VerifyEmail: `Hi {{.Name}},

Use this code to verify your email address: {{.Code}}

The code expires in 24 hours. If you did not create an account, ignore this message.`,
	Welcome: `Hi {{.Name}},

Your account is ready. Sign in with {{.Email}} to get started.`,
}

var htmlBodies = map[string]string{
	VerifyEmail: `<p>Hi {{.Name}},</p>
<p>Use this code to verify your email address:</p>
<p style="font-size:24px;font-weight:bold;letter-spacing:4px">{{.Code}}</p>
<p>The code expires in 24 hours. If you did not create an account, ignore this message.</p>`,
	Welcome: `<p>Hi {{.Name}},</p>
<p>Your account is ready. Sign in with <b>{{.Email}}</b> to get started.</p>`,
}

// Render produces the subject, plain-text and HTML bodies for a named
// template. Unknown template names are an error so a bad job surfaces in the
// worker log instead of sending an empty email.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	subject, ok := subjects[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}

	tt, err := texttpl.New(name).Parse(textBodies[name])
	if err != nil {
		return "", "", "", err
	}
	var tb bytes.Buffer
	if err := tt.Execute(&tb, data); err != nil {
		return "", "", "", err
	}

	ht, err := htmpl.New(name).Parse(htmlBodies[name])
	if err != nil {
		return "", "", "", err
	}
	var hb bytes.Buffer
	if err := ht.Execute(&hb, data); err != nil {
		return "", "", "", err
	}

	return subject, tb.String(), hb.String(), nil
}
