package service

import (
	"bytes"
	"html/template"
)

var resetEmailTemplate = template.Must(template.New("reset").Parse(`<h2>Hello {{.Name}}</h2>
<p>Please use the url below to reset your password.</p>
<p>This reset link is valid for only {{.Minutes}} minutes.</p>

<a href="{{.ResetURL}}" clicktracking=off>{{.ResetURL}}</a>

<p>Regards...</p>
<p>Mamba Group</p>
`))

var contactEmailTemplate = template.Must(template.New("contact").Parse(`<p>{{.Message}}</p>
<hr>
<p>Sent by {{.Name}} &lt;{{.Email}}&gt; through the contact form.</p>
`))

type resetEmailData struct {
	Name     string
	ResetURL string
	Minutes  int
}

type contactEmailData struct {
	Name    string
	Email   string
	Message string
}

func renderResetEmail(data resetEmailData) (string, error) {
	var buf bytes.Buffer
	if err := resetEmailTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderContactEmail(data contactEmailData) (string, error) {
	var buf bytes.Buffer
	if err := contactEmailTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
