// Package docs registers the OpenAPI document of the grading API with swag.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/login": {
            "post": {
                "summary": "Log in as the instructor",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {"200": {"description": "token", "schema": {"$ref": "#/definitions/LoginResponse"}}, "401": {"description": "invalid credentials"}}
            }
        },
        "/answer-key": {
            "get": {
                "summary": "Current answer key",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "question number to choice", "schema": {"$ref": "#/definitions/AnswerKey"}}}
            }
        },
        "/answer-key/{question}": {
            "put": {
                "summary": "Set the correct choice of one question",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "question", "type": "integer", "required": true, "minimum": 1, "maximum": 20},
                    {"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"choice": {"type": "string", "enum": ["A", "B", "C", "D"]}}}}
                ],
                "responses": {"200": {"description": "updated key", "schema": {"$ref": "#/definitions/AnswerKey"}}, "400": {"description": "question out of range or invalid choice"}}
            }
        },
        "/history": {
            "get": {
                "summary": "Last 50 graded results, newest first",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "history", "schema": {"type": "array", "items": {"$ref": "#/definitions/GradedResult"}}}}
            }
        },
        "/history/summary": {
            "get": {
                "summary": "Count, average score and passed count of the history",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "summary"}}
            }
        },
        "/session": {
            "get": {
                "summary": "Scan flow state",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "snapshot", "schema": {"$ref": "#/definitions/SessionSnapshot"}}}
            }
        },
        "/session/camera": {
            "post": {"summary": "Open the camera (idle or result to capturing)", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "snapshot"}, "409": {"description": "scan in progress"}}},
            "delete": {"summary": "Cancel capture", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "snapshot"}, "409": {"description": "not capturing"}}}
        },
        "/session/camera/unavailable": {
            "post": {"summary": "Report that the camera could not be opened", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "snapshot"}}}
        },
        "/session/scan": {
            "post": {
                "summary": "Submit a captured JPEG for recognition",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data", "image/jpeg"],
                "parameters": [{"in": "formData", "name": "image", "type": "file"}],
                "responses": {"202": {"description": "processing"}, "400": {"description": "not a JPEG"}, "409": {"description": "scan in progress or not capturing"}}
            }
        },
        "/session/dismiss": {
            "post": {"summary": "Leave the result screen", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "snapshot"}}}
        },
        "/session/error": {
            "delete": {"summary": "Dismiss the error message", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "snapshot"}}}
        },
        "/results": {
            "get": {
                "summary": "Archived results",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "studentId", "type": "string"},
                    {"in": "query", "name": "limit", "type": "integer"}
                ],
                "responses": {"200": {"description": "results", "schema": {"type": "array", "items": {"$ref": "#/definitions/GradedResult"}}}}
            }
        },
        "/results/{id}": {
            "get": {
                "summary": "One archived result",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "result", "schema": {"$ref": "#/definitions/GradedResult"}}, "404": {"description": "not found"}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {"type": "object", "properties": {"username": {"type": "string"}, "password": {"type": "string"}}},
        "LoginResponse": {"type": "object", "properties": {"token": {"type": "string"}, "hostId": {"type": "string"}}},
        "AnswerKey": {"type": "object", "additionalProperties": {"type": "string", "enum": ["A", "B", "C", "D", ""]}},
        "GradedResult": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "studentId": {"type": "string"},
                "variantCode": {"type": "string"},
                "answers": {"$ref": "#/definitions/AnswerKey"},
                "score": {"type": "number"},
                "totalQuestions": {"type": "integer"},
                "correctCount": {"type": "integer"},
                "timestamp": {"type": "string", "format": "date-time"}
            }
        },
        "SessionSnapshot": {
            "type": "object",
            "properties": {
                "state": {"type": "string", "enum": ["idle", "capturing", "processing", "result"]},
                "current": {"type": "object"},
                "error": {"type": "string"},
                "updatedAt": {"type": "string", "format": "date-time"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Sheet Grader API",
	Description:      "Grades photographed bubble answer sheets against a configured answer key",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
