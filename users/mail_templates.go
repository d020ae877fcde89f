package users

import (
	"bytes"
	"fmt"
	"html/template"
)

var verifyEmailTmpl = template.Must(template.New("verify_email").Parse(`
<h1>Hello {{.FirstName}} {{.LastName}}</h1>
<a href="{{.Link}}">{{.Link}}</a>
<b>Thanks for signing up in {{.AppName}}</b>
`))

var resetPasswordTmpl = template.Must(template.New("reset_password").Parse(`
<h1>Hello {{.FirstName}} {{.LastName}}</h1>
<a href="{{.Link}}">{{.Link}}</a>
<b>Enter the link to reset your password, otherwise ignore this message</b>
`))

type mailData struct {
	FirstName string
	LastName  string
	Link      string
	AppName   string
}

func renderMail(tmpl *template.Template, data mailData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render mail template: %w", err)
	}
	return buf.String(), nil
}
