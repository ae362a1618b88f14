package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "LMS Insight API",
        "description": "Builds supervised-learning datasets for late assignment submission prediction from an LMS mirror database",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Service token issuance"},
        {"name": "Datasets", "description": "Dataset builds, eligibility checks and exports"}
    ],
    "paths": {
        "/auth/token": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Issue service token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/datasets/late-submission": {
            "get": {
                "tags": ["Datasets"],
                "summary": "Build late-submission dataset",
                "parameters": [
                    {"name": "course_id", "in": "query", "type": "integer"},
                    {"name": "mode", "in": "query", "type": "string", "enum": ["training", "prediction"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/datasets/late-submission/exports": {
            "post": {
                "tags": ["Datasets"],
                "summary": "Export late-submission dataset",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/activities/{id}/eligibility": {
            "get": {
                "tags": ["Datasets"],
                "summary": "Check activity eligibility",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "mode", "in": "query", "type": "string", "enum": ["training", "prediction"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/downloads/{token}": {
            "get": {
                "tags": ["Datasets"],
                "summary": "Download a dataset export",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File stream"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "TokenRequest": {
            "type": "object",
            "properties": {
                "service_key": {"type": "string"},
                "subject": {"type": "string"}
            },
            "required": ["service_key"]
        },
        "ExportRequest": {
            "type": "object",
            "properties": {
                "course_id": {"type": "integer"},
                "mode": {"type": "string", "enum": ["training", "prediction"]},
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            }
        },
        "DatasetRow": {
            "type": "object",
            "properties": {
                "sample_id": {"type": "integer"},
                "activity_id": {"type": "integer"},
                "course_id": {"type": "integer"},
                "user_id": {"type": "integer"},
                "late": {"type": "integer"},
                "weight_class": {"type": "integer"}
            }
        },
        "Dataset": {
            "type": "object",
            "properties": {
                "build_id": {"type": "string"},
                "model": {"type": "string"},
                "mode": {"type": "string"},
                "generated_at": {"type": "string"},
                "rows": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/DatasetRow"}
                },
                "skipped": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/ActivitySkip"}
                }
            }
        },
        "ActivitySkip": {
            "type": "object",
            "properties": {
                "activity_id": {"type": "integer"},
                "reason": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
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
