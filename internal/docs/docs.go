// Package docs registra la especificación OpenAPI del servicio para http-swagger.
// Está escrita a mano con el mismo formato que genera `swag init`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/pets": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Lista todas las mascotas ordenadas por id",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/Pet"}}
                    }
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Registra una mascota",
                "parameters": [
                    {"type": "string", "description": "Clave de idempotencia", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Mascota", "name": "pet", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PetRequest"}}
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "headers": {
                            "ETag": {"type": "string", "description": "Versión actual entre comillas"},
                            "Location": {"type": "string"}
                        },
                        "schema": {"$ref": "#/definitions/Pet"}
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Problem"}}
                }
            }
        },
        "/pets/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Obtiene una mascota por id",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "headers": {"ETag": {"type": "string"}},
                        "schema": {"$ref": "#/definitions/Pet"}
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Problem"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Problem"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Reemplaza una mascota con control de concurrencia optimista",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Versión esperada (ETag)", "name": "If-Match", "in": "header"},
                    {"description": "Mascota", "name": "pet", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PetRequest"}}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "headers": {"ETag": {"type": "string"}},
                        "schema": {"$ref": "#/definitions/Pet"}
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Problem"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Problem"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/Problem"}},
                    "412": {"description": "Precondition Failed", "schema": {"$ref": "#/definitions/Problem"}}
                }
            },
            "delete": {
                "tags": ["pets"],
                "summary": "Elimina una mascota",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Problem"}}
                }
            }
        }
    },
    "definitions": {
        "PetRequest": {
            "type": "object",
            "required": ["name", "species"],
            "properties": {
                "name": {"type": "string", "example": "Buddy"},
                "species": {"type": "string", "example": "Dog"},
                "age": {"type": "integer", "minimum": 0, "example": 3},
                "owner_name": {"type": "string", "example": "John Doe"}
            }
        },
        "Pet": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 1},
                "name": {"type": "string"},
                "species": {"type": "string"},
                "age": {"type": "integer"},
                "owner_name": {"type": "string"}
            }
        },
        "FieldProblem": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "rejected_value": {},
                "message": {"type": "string"}
            }
        },
        "Problem": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "title": {"type": "string"},
                "status": {"type": "integer"},
                "detail": {"type": "string"},
                "errors": {"type": "array", "items": {"$ref": "#/definitions/FieldProblem"}},
                "id": {"type": "integer"},
                "expected_version": {"type": "integer"},
                "actual_version": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo se puede ajustar en runtime (Host, BasePath, etc).
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Pet Registry API",
	Description:      "Registro de mascotas con control de concurrencia optimista.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
