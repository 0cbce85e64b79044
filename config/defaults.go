package config

// defaults returns the built-in values every process starts from. Rebuilt on
// each call so construction never shares slices with the resolved tree.
func defaults() map[string]any {
	return map[string]any{
		"env":       "dev",
		"debug":     false,
		"host":      "127.0.0.1",
		"port":      4190,
		"log_level": "info",
		"hotreload": true,
		// url
		"allow_underline": false,
		// middleware
		"force_ssl":               false,
		"allowed_hosts":           []string{"*"},
		"cors_allow_origins":      []string{},
		"cors_allow_methods":      []string{"GET"},
		"cors_allow_headers":      []string{},
		"cors_allow_credentials":  false,
		"cors_allow_origin_regex": nil,
		"cors_expose_headers":     []string{},
		"cors_max_age":            600,
	}
}
