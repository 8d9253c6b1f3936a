package mail

import "html/template"

type templateData struct {
	ClinicName  string
	PatientName string
	DoctorName  string
	Date        string
	Time        string
	StatusLabel string
}

var notificationTmpl = template.Must(template.New("appointment_notification").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Arial, Helvetica, sans-serif; background:#f7fafc; color:#1f2937; }
  .card { max-width:640px; margin:32px auto; background:white; border-radius:8px; overflow:hidden; }
  .header { padding:20px; background:#0f172a; color:white }
  .body { padding:24px; }
  .muted { color:#6b7280; font-size:14px }
</style>
</head>
<body>
<div class="card">
  <div class="header">
    <div style="font-weight:700; font-size:18px">{{.ClinicName}}</div>
    <div style="font-size:13px; opacity:0.85">Notificación de cita médica</div>
  </div>
  <div class="body">
    <p>Hola {{.PatientName}},</p>
    <p class="muted">Este mensaje es para informarle sobre el estado de su solicitud de cita.</p>
    <ul>
      <li><strong>Fecha:</strong> {{.Date}}</li>
      <li><strong>Hora:</strong> {{.Time}}</li>
      <li><strong>Especialista:</strong> {{.DoctorName}}</li>
      <li><strong>Estado:</strong> {{.StatusLabel}}</li>
    </ul>
    <p class="muted" style="margin-top:18px">Gracias por confiar en {{.ClinicName}}.</p>
  </div>
</div>
</body>
</html>
`))
