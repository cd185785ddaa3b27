package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Faculty Workload API",
        "description": "Timetable constraint checks, faculty hour ledger and automatic reassignment of workload requests.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Login and session"},
        {"name": "Timetable", "description": "Slot commits, edits and deletions with clash and hour checks"},
        {"name": "Workload Requests", "description": "Absence requests and automatic reassignment"},
        {"name": "Faculty", "description": "Faculty self-service"},
        {"name": "Academics", "description": "Department workload, exports and reconciliation"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Login",
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current user",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable": {
            "get": {
                "tags": ["Timetable"],
                "summary": "List timetable slots",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "department_id", "type": "string"},
                    {"in": "query", "name": "faculty_id", "type": "string"},
                    {"in": "query", "name": "class_year", "type": "string"},
                    {"in": "query", "name": "date", "type": "string", "format": "date"},
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "page_size", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Timetable"],
                "summary": "Commit a timetable slot",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CommitSlotRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid period or payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Faculty or class clash", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Overload or continuity violation", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/{id}": {
            "put": {
                "tags": ["Timetable"],
                "summary": "Edit a timetable slot",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/EditSlotRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Slot not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Faculty or class clash", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Overload or continuity violation", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Timetable"],
                "summary": "Delete a timetable slot",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Slot not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/workload-requests": {
            "get": {
                "tags": ["Workload Requests"],
                "summary": "List workload requests",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "status", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/workload-requests/{id}": {
            "get": {
                "tags": ["Workload Requests"],
                "summary": "Get a workload request",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Workload Requests"],
                "summary": "Update a workload request",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/UpdateWorkloadRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Workload Requests"],
                "summary": "Delete a workload request",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/workload-requests/{id}/reassign": {
            "post": {
                "tags": ["Workload Requests"],
                "summary": "Reassign the periods of a workload request",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Reassignment result", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already reassigned", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/faculty/me": {
            "get": {
                "tags": ["Faculty"],
                "summary": "Current faculty profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/faculty/me/timetable": {
            "get": {
                "tags": ["Faculty"],
                "summary": "Current faculty timetable",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/faculty/me/workload-requests": {
            "get": {
                "tags": ["Faculty"],
                "summary": "Own workload requests",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Faculty"],
                "summary": "Raise a workload request",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/RaiseWorkloadRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/academics/departments/{id}/workload": {
            "get": {
                "tags": ["Academics"],
                "summary": "Department workload summary",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/academics/faculty/{id}": {
            "get": {
                "tags": ["Academics"],
                "summary": "Faculty details with timetable",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/academics/faculty/{id}/timetable/export": {
            "get": {
                "tags": ["Academics"],
                "summary": "Export a faculty timetable",
                "produces": ["text/csv", "application/pdf"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/academics/faculty/{id}/reconcile": {
            "post": {
                "tags": ["Academics"],
                "summary": "Check and optionally repair hour drift",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "query", "name": "repair", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CommitSlotRequest": {
            "type": "object",
            "required": ["departmentId", "facultyId", "subject", "date", "period", "classYear"],
            "properties": {
                "departmentId": {"type": "string"},
                "facultyId": {"type": "string"},
                "subject": {"type": "string"},
                "day": {"type": "string"},
                "date": {"type": "string", "format": "date"},
                "period": {"type": "integer", "minimum": 1, "maximum": 8},
                "classYear": {"type": "string"},
                "roomNumber": {"type": "string"},
                "type": {"type": "string", "enum": ["Theory", "Lab"]}
            }
        },
        "EditSlotRequest": {
            "type": "object",
            "properties": {
                "facultyId": {"type": "string"},
                "subject": {"type": "string"},
                "day": {"type": "string"},
                "date": {"type": "string", "format": "date"},
                "period": {"type": "integer", "minimum": 1, "maximum": 8},
                "classYear": {"type": "string"},
                "roomNumber": {"type": "string"},
                "type": {"type": "string", "enum": ["Theory", "Lab"]}
            }
        },
        "RaiseWorkloadRequest": {
            "type": "object",
            "required": ["date", "reason"],
            "properties": {
                "date": {"type": "string", "format": "date"},
                "type": {"type": "string", "enum": ["SINGLE", "FULL_DAY"]},
                "periods": {"type": "array", "items": {"type": "integer"}},
                "reason": {"type": "string"}
            }
        },
        "UpdateWorkloadRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["Pending", "Approved", "Escalated", "Reassigned", "Rejected"]},
                "decisionLog": {"type": "string"},
                "escalatedTo": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
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
