package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Traineo Agenda API",
        "description": "Training-plan and curriculum scheduling service",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Agenda Imports", "description": "Async training-plan imports"},
        {"name": "Curriculum", "description": "Synchronous curriculum scheduling"},
        {"name": "Exports", "description": "Agenda downloads"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/projects/{id}/agenda/import": {
            "post": {
                "tags": ["Agenda Imports"],
                "summary": "Start a training-plan import",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ImportAgendaRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/agenda/imports/{jobId}": {
            "get": {
                "tags": ["Agenda Imports"],
                "summary": "Poll an import job",
                "parameters": [
                    {"name": "jobId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown job", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/projects/{id}/curriculum-schedule": {
            "post": {
                "tags": ["Curriculum"],
                "summary": "Schedule every active curriculum course for the project",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "No eligible targets", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/projects/{id}/agenda/export": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download the project agenda",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "404": {"description": "Unknown project", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ImportAgendaRequest": {
            "type": "object",
            "required": ["trainingPlanId"],
            "properties": {
                "trainingPlanId": {"type": "string"},
                "selectedGroups": {"type": "array", "items": {"type": "string"}},
                "includeAllParticipants": {"type": "boolean"},
                "followProjectHours": {"type": "boolean"},
                "assignByRole": {"type": "boolean"},
                "selectedRoles": {"type": "array", "items": {"type": "string"}},
                "preserveExistingEvents": {"type": "boolean"}
            }
        },
        "ImportJobResponse": {
            "type": "object",
            "properties": {
                "jobId": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "ImportStatusResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "status": {"type": "string"},
                "processed": {"type": "integer"},
                "total": {"type": "integer"},
                "warnings": {"type": "array", "items": {"type": "string"}},
                "events": {"type": "array", "items": {"$ref": "#/definitions/Event"}},
                "message": {"type": "string"}
            }
        },
        "CurriculumScheduleResponse": {
            "type": "object",
            "properties": {
                "events": {"type": "array", "items": {"$ref": "#/definitions/Event"}},
                "created": {"type": "integer"},
                "lunchBreaks": {"type": "integer"},
                "truncatedCourses": {"type": "integer"},
                "scheduledThrough": {"type": "string", "format": "date-time"}
            }
        },
        "Event": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "project_id": {"type": "string"},
                "title": {"type": "string"},
                "start": {"type": "string", "format": "date-time"},
                "end": {"type": "string", "format": "date-time"},
                "type": {"type": "string", "enum": ["course", "support", "custom", "lunch"]},
                "course_id": {"type": "string"},
                "group_id": {"type": "string"},
                "participant_ids": {"type": "array", "items": {"type": "string"}}
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
