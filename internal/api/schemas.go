package api

// Schemas for the backend payloads the session layer depends on. Only the
// fields the session manager actually consumes are required; the backend is
// free to add more.

const tokenPairSchema = `{
	"type": "object",
	"required": ["access", "refresh"],
	"properties": {
		"access":  {"type": "string", "minLength": 1},
		"refresh": {"type": "string", "minLength": 1}
	}
}`

const userProfileSchema = `{
	"type": "object",
	"required": ["id", "email", "first_name", "last_name", "role"],
	"properties": {
		"id":              {"type": "integer"},
		"email":           {"type": "string", "minLength": 1},
		"username":        {"type": "string"},
		"first_name":      {"type": "string"},
		"last_name":       {"type": "string"},
		"role":            {"type": "string", "minLength": 1},
		"role_display":    {"type": "string"},
		"profile_picture": {"type": ["string", "null"]},
		"birth_date":      {"type": ["string", "null"]},
		"birth_city":      {"type": ["string", "null"]},
		"national_id":     {"type": ["string", "null"]},
		"phone_number":    {"type": ["string", "null"]},
		"address":         {"type": ["string", "null"]},
		"city":            {"type": ["string", "null"]},
		"date_joined":     {"type": ["string", "null"]},
		"is_active":       {"type": "boolean"},
		"created_at":      {"type": ["string", "null"]},
		"updated_at":      {"type": ["string", "null"]}
	}
}`
