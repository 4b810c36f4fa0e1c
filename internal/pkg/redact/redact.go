// redact — маскирование чувствительных значений перед записью в лог.
// Токены не логируются никогда, имена пользователей — только усечённо.
package redact

// Username маскирует имя пользователя, оставляя не более двух первых символов.
func Username(s string) string {
	r := []rune(s)
	if len(r) <= 2 {
		return "***"
	}

	return string(r[:2]) + "***"
}

func Token() string { return "[REDACTED_TOKEN]" }
