package utils

import (
	"net/url"
	"strconv"
	"strings"
)

// QueryValues junta os valores de key e de key[], descartando vazios
func QueryValues(values url.Values, key string) []string {
	raw := append(append([]string{}, values[key]...), values[key+"[]"]...)

	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// QueryInt devolve fallback quando o parâmetro está ausente ou não é um inteiro
func QueryInt(values url.Values, key string, fallback int) int {
	n, ok := parseInt(values.Get(key))
	if !ok {
		return fallback
	}
	return n
}

// QueryIntPtr devolve nil quando o parâmetro está ausente ou malformado
func QueryIntPtr(values url.Values, key string) *int {
	n, ok := parseInt(values.Get(key))
	if !ok {
		return nil
	}
	return &n
}

// QueryStringPtr devolve nil para parâmetros ausentes ou em branco
func QueryStringPtr(values url.Values, key string) *string {
	v := strings.TrimSpace(values.Get(key))
	if v == "" {
		return nil
	}
	return &v
}

func parseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
