package diag

func New(sev Severity, code Code, module, subject, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Module:   module,
		Subject:  subject,
		Message:  msg,
	}
}

func NewError(code Code, module, subject, msg string) Diagnostic {
	return New(SevError, code, module, subject, msg)
}

func (d Diagnostic) WithNote(subject, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Subject: subject, Msg: msg})
	return d
}
