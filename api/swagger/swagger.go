package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "YupiFlow Directory API",
        "description": "User directory and partner registration review for the YupiMall admin dashboard",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "Bearer": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"Bearer": []}],
    "tags": [
        {"name": "Authentication", "description": "Login and role catalog"},
        {"name": "Users", "description": "Directory of staff and customer accounts"},
        {"name": "Registrations", "description": "Pending partner applications"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "security": [],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/UserInfo"}}
                }
            }
        },
        "/roles": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Role catalog",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/RoleInfo"}}}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List users",
                "parameters": [
                    {"in": "query", "name": "page", "type": "integer", "default": 1},
                    {"in": "query", "name": "limit", "type": "integer", "default": 10},
                    {"in": "query", "name": "search", "type": "string"},
                    {"in": "query", "name": "role", "type": "string", "description": "Comma separated roles"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/UserPage"}}
                }
            },
            "post": {
                "tags": ["Users"],
                "summary": "Create user",
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CreateUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/User"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "409": {"description": "Email already exists", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/users/export": {
            "get": {
                "tags": ["Users"],
                "summary": "Export users",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"], "default": "csv"},
                    {"in": "query", "name": "search", "type": "string"},
                    {"in": "query", "name": "role", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "tags": ["Users"],
                "summary": "Get user",
                "parameters": [{"in": "path", "name": "id", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/User"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "delete": {
                "tags": ["Users"],
                "summary": "Delete user",
                "parameters": [{"in": "path", "name": "id", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/MessageBody"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/registrations": {
            "get": {
                "tags": ["Registrations"],
                "summary": "List registrations",
                "parameters": [
                    {"in": "query", "name": "status", "type": "string", "enum": ["pending", "approved", "rejected"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/RegistrationList"}}
                }
            }
        },
        "/registrations/{id}": {
            "get": {
                "tags": ["Registrations"],
                "summary": "Get registration",
                "parameters": [{"in": "path", "name": "id", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Registration"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/registrations/{id}/status": {
            "patch": {
                "tags": ["Registrations"],
                "summary": "Approve or reject a registration",
                "parameters": [
                    {"in": "path", "name": "id", "type": "integer", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/ReviewRegistrationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Registration"}},
                    "409": {"description": "Not pending", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "ErrorBody": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "code": {"type": "string"}
            }
        },
        "MessageBody": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "UserInfo": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "expires_in": {"type": "integer"},
                "issued_at": {"type": "string", "format": "date-time"},
                "user": {"$ref": "#/definitions/UserInfo"}
            }
        },
        "RoleInfo": {
            "type": "object",
            "properties": {
                "role": {"type": "string"},
                "label": {"type": "string"},
                "color": {"type": "string"},
                "description": {"type": "string"},
                "tier": {"type": "string"}
            }
        },
        "User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "username": {"type": "string", "x-nullable": true},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["dev", "super_admin", "admin", "webmaster", "stockist", "warehouse", "delivery", "distributor", "consumer"]},
                "phone": {"type": "string", "x-nullable": true},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "UserPage": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "total": {"type": "integer"},
                "lastPage": {"type": "integer"},
                "message": {"type": "string"},
                "getAllUsers": {"type": "array", "items": {"$ref": "#/definitions/User"}}
            }
        },
        "CreateUserRequest": {
            "type": "object",
            "required": ["name", "email", "password", "role"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "role": {"type": "string"},
                "phone": {"type": "string", "x-nullable": true},
                "username": {"type": "string", "x-nullable": true}
            }
        },
        "Registration": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "sponsor_id": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "address": {"type": "string"},
                "city": {"type": "string"},
                "country": {"type": "string"},
                "zip_code": {"type": "string"},
                "plan": {"type": "string"},
                "payment_method": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "approved", "rejected"]},
                "requested_role": {"type": "string"},
                "reviewed_by": {"type": "integer"},
                "reviewed_at": {"type": "string", "format": "date-time"},
                "review_note": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "RegistrationList": {
            "type": "object",
            "properties": {
                "registrations": {"type": "array", "items": {"$ref": "#/definitions/Registration"}}
            }
        },
        "ReviewRegistrationRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["approved", "rejected"]},
                "note": {"type": "string", "maxLength": 500}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
