package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const codeTemplate = `<html>
<body style="font-family: Arial, sans-serif; padding: 20px;">
  <div style="max-width: 500px; margin: 0 auto; background: #f8fafc; padding: 30px; border-radius: 10px;">
    <h2 style="color: #1e40af; margin-bottom: 20px;">{{.Heading}}</h2>
    <p>{{.Intro}}</p>
    <p>Voici votre code de vérification :</p>
    <div style="background: #1e40af; color: white; font-size: 32px; font-weight: bold; text-align: center; padding: 20px; border-radius: 8px; letter-spacing: 8px; margin: 20px 0;">{{.Code}}</div>
    <p style="color: #64748b; font-size: 14px;">Ce code expire dans {{.Minutes}} minutes.</p>
    {{if .Notice}}<p style="color: #64748b; font-size: 14px;">{{.Notice}}</p>{{end}}
    <hr style="border: none; border-top: 1px solid #e2e8f0; margin: 20px 0;">
    <p style="color: #94a3b8; font-size: 12px;">{{.AppName}} - Estimation de salaire par IA</p>
  </div>
</body>
</html>`

var codeTmpl = template.Must(template.New("code").Parse(codeTemplate))

type codeView struct {
	AppName string
	Heading string
	Intro   string
	Notice  string
	Code    string
	Minutes int
}

// renderCode devuelve asunto y cuerpo HTML segun el proposito del codigo.
func renderCode(appName, code string, purpose Purpose, expiresIn time.Duration) (string, string, error) {
	view := codeView{
		AppName: appName,
		Code:    code,
		Minutes: int(expiresIn.Round(time.Minute).Minutes()),
	}

	var subject string
	switch purpose {
	case PurposeReset:
		subject = appName + " - Code de réinitialisation"
		view.Heading = "Réinitialisation de mot de passe"
		view.Intro = "Vous avez demandé la réinitialisation de votre mot de passe."
		view.Notice = "Si vous n'avez pas demandé cette réinitialisation, ignorez cet email."
	case PurposeVerify:
		subject = appName + " - Vérification de votre email"
		view.Heading = "Bienvenue sur " + appName + "!"
		view.Intro = "Merci de vous être inscrit. Veuillez vérifier votre adresse email."
	default:
		return "", "", fmt.Errorf("unknown code purpose %q", purpose)
	}

	var buf bytes.Buffer
	if err := codeTmpl.Execute(&buf, view); err != nil {
		return "", "", fmt.Errorf("execute template: %w", err)
	}
	return subject, buf.String(), nil
}
