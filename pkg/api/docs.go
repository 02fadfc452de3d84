package api

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
        "/health": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "description": "Reports how many registered families have a decode table built.",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/families": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["families"],
                "summary": "List families",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/api.APIResponse"},
                                {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/api.FamilyInfo"}}}}
                            ]
                        }
                    }
                }
            }
        },
        "/families/{name}/stats": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["families"],
                "summary": "Decode table statistics",
                "parameters": [
                    {"type": "string", "description": "Family name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Unknown family", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "Table not built", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/decode": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["decode"],
                "summary": "Decode an observed codeword",
                "description": "Looks the code up under all four rotations and optionally records the result.",
                "parameters": [
                    {"description": "Observed code", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.DecodeRequest"}}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/api.APIResponse"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/api.DecodeResponse"}}}
                            ]
                        }
                    },
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Unknown family", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "Table not built", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/detections": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["detections"],
                "summary": "List recorded detections",
                "parameters": [
                    {"type": "integer", "description": "Maximum number of detections", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Only detections of this family", "name": "family", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/detections/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["detections"],
                "summary": "Get a detection",
                "parameters": [
                    {"type": "string", "description": "Detection KSUID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Invalid ID", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"type": "string"}
            }
        },
        "api.DecodeRequest": {
            "type": "object",
            "properties": {
                "family": {"type": "string"},
                "code": {"type": "string", "example": "0x1b2c3d4"},
                "record": {"type": "boolean"}
            }
        },
        "api.DecodeResponse": {
            "type": "object",
            "properties": {
                "family": {"type": "string"},
                "observed": {"type": "string"},
                "found": {"type": "boolean"},
                "id": {"type": "integer"},
                "hamming": {"type": "integer"},
                "rotation": {"type": "integer"},
                "reference": {"type": "string"},
                "matched": {"type": "string"},
                "detection_id": {"type": "string"}
            }
        },
        "api.FamilyInfo": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "bits": {"type": "integer"},
                "min_hamming": {"type": "integer"},
                "black_border": {"type": "integer"},
                "codes": {"type": "integer"},
                "initialized": {"type": "boolean"},
                "max_hamming": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "tagdecode REST API",
	Description:      "HTTP service that identifies observed fiducial marker codewords.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
