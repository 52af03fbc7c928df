// internal/account/schemas.go
package account

const otpRequestSchema = `{
	"type": "object",
	"required": ["email"],
	"additionalProperties": false,
	"properties": {
		"email": {"type": "string", "format": "email", "minLength": 3}
	}
}`

const otpVerifySchema = `{
	"type": "object",
	"required": ["email", "code"],
	"additionalProperties": false,
	"properties": {
		"email": {"type": "string", "format": "email", "minLength": 3},
		"code": {"type": "string", "pattern": "^[0-9]{4,8}$"}
	}
}`

const passwordChangeSchema = `{
	"type": "object",
	"required": ["email", "code", "newPassword"],
	"additionalProperties": false,
	"properties": {
		"email": {"type": "string", "format": "email", "minLength": 3},
		"code": {"type": "string", "pattern": "^[0-9]{4,8}$"},
		"newPassword": {"type": "string", "minLength": 8, "maxLength": 128}
	}
}`

const emailChangeSchema = `{
	"type": "object",
	"required": ["email", "code", "newEmail"],
	"additionalProperties": false,
	"properties": {
		"email": {"type": "string", "format": "email", "minLength": 3},
		"code": {"type": "string", "pattern": "^[0-9]{4,8}$"},
		"newEmail": {"type": "string", "format": "email", "minLength": 3}
	}
}`
