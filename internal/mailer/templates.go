// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package mailer

import (
	"html/template"
	"strings"
)

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #222;">
  <h2>Welcome to Seraj, {{.Name}}!</h2>
  <p>Your account is ready. Post your first listing, follow sellers you
  like, and message buyers directly from the app.</p>
  {{if .PublicURL}}<p><a href="{{.PublicURL}}">Open Seraj</a></p>{{end}}
  <p>— The Seraj team</p>
</body>
</html>`))

var passwordResetTmpl = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #222;">
  <h2>Password reset</h2>
  <p>Hi {{.Name}},</p>
  <p>We received a request to reset your Seraj password. Use this code
  in the app to choose a new one:</p>
  <p style="font-size: 20px; letter-spacing: 2px;"><strong>{{.Token}}</strong></p>
  <p>The code expires in one hour. If you did not request a reset, you
  can ignore this email.</p>
  <p>— The Seraj team</p>
</body>
</html>`))

func renderWelcome(name, publicURL string) (string, error) {
	var b strings.Builder
	err := welcomeTmpl.Execute(&b, struct {
		Name      string
		PublicURL string
	}{name, publicURL})
	return b.String(), err
}

func renderPasswordReset(name, token, publicURL string) (string, error) {
	var b strings.Builder
	err := passwordResetTmpl.Execute(&b, struct {
		Name      string
		Token     string
		PublicURL string
	}{name, token, publicURL})
	return b.String(), err
}
