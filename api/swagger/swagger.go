package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "U-Schedule API",
        "description": "Course timetabling assistant: drafting, cross-program sharing and homebase matching",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Auth", "description": "Login and profile"},
        {"name": "Catalog", "description": "Campuses, programs, batches and sections"},
        {"name": "Schedule", "description": "Interactive schedule drafting"},
        {"name": "Shares", "description": "Cross-program instructor assignment"},
        {"name": "Homebase", "description": "Section to room matching"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate a department head",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/profile": {
            "get": {
                "tags": ["Auth"],
                "summary": "Profile of the authenticated user",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/catalog/campuses": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List campuses",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/catalog/programs": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List academic programs",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "campusId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/catalog/programs/{programId}/entry-years": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Entry years with at least one active batch",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "programId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/catalog/programs/{programId}/batch": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Resolve a batch and its academic year options",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "programId", "in": "path", "required": true, "type": "string"},
                    {"name": "entryYear", "in": "query", "required": true, "type": "integer"},
                    {"name": "programType", "in": "query", "type": "string"},
                    {"name": "admissionType", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No matching batch"}
                }
            }
        },
        "/catalog/programs/{programId}/sections": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Sections of a program for an academic year",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "programId", "in": "path", "required": true, "type": "string"},
                    {"name": "academicYear", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/catalog/programs/{programId}/instructors": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List a program's instructors",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "programId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/catalog/lab-assistants": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List the lab assistant roster",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/sessions": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Open or resume a scheduling session",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OpenSessionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sections/{sectionId}/schedule": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Current schedule view for a session",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "sectionId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No open session"}
                }
            },
            "delete": {
                "tags": ["Schedule"],
                "summary": "Close the scheduling session",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "sectionId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/sections/{sectionId}/schedule/instructor": {
            "put": {
                "tags": ["Schedule"],
                "summary": "Assign an instructor to a course offering",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "sectionId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignInstructorRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Instructor not qualified or over capacity"}
                }
            }
        },
        "/sections/{sectionId}/schedule/slots": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Drop a course hour onto a timetable slot",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "sectionId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DropRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Slot occupied"},
                    "422": {"description": "Hours exhausted or staffing missing"}
                }
            }
        },
        "/sections/{sectionId}/schedule/assignments/{assignmentId}": {
            "delete": {
                "tags": ["Schedule"],
                "summary": "Remove a placed assignment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "sectionId", "in": "path", "required": true, "type": "string"},
                    {"name": "assignmentId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sections/{sectionId}/schedule/draft": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Persist the session state as a draft",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "sectionId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sections/{sectionId}/schedule/export": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Export the timetable as CSV or PDF",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "sectionId", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File attachment"}
                }
            }
        },
        "/shares": {
            "post": {
                "tags": ["Shares"],
                "summary": "Share draft courses with the program that owns them",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ShareWithProgramRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Course not owned by the target program"}
                }
            }
        },
        "/shares/incoming": {
            "get": {
                "tags": ["Shares"],
                "summary": "Share requests addressed to the acting program",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/shares/outgoing": {
            "get": {
                "tags": ["Shares"],
                "summary": "Share requests raised by the acting program",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/shares/{shareId}/accept": {
            "post": {
                "tags": ["Shares"],
                "summary": "Accept an incoming share request",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "shareId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not the target program"}
                }
            }
        },
        "/shares/{shareId}/schedule": {
            "get": {
                "tags": ["Shares"],
                "summary": "Combined timetable view for an accepted share",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "shareId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/shares/{shareId}/schedule/slots": {
            "post": {
                "tags": ["Shares"],
                "summary": "Place a shared course hour on the combined timetable",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "shareId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DropRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Assignment outside the shared courses"},
                    "409": {"description": "Slot occupied"}
                }
            }
        },
        "/shares/{shareId}/schedule/assignments/{assignmentId}": {
            "delete": {
                "tags": ["Shares"],
                "summary": "Remove a shared-course assignment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "shareId", "in": "path", "required": true, "type": "string"},
                    {"name": "assignmentId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/shares/{shareId}/assignments": {
            "put": {
                "tags": ["Shares"],
                "summary": "Replace the shared-course assignments wholesale",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "shareId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExternalAssignmentsUpdate"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/shares/{shareId}/submit": {
            "post": {
                "tags": ["Shares"],
                "summary": "Complete a share and write it back to the source draft",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "shareId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/drafts": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Draft schedules of the acting program",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/drafts/{draftId}/merged": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Merged assignments of a draft and its completed shares",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "draftId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/homebase/match": {
            "post": {
                "tags": ["Homebase"],
                "summary": "Match sections to rooms by capacity",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/homebase/reset": {
            "post": {
                "tags": ["Homebase"],
                "summary": "Clear homebase assignments",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/homebase/assignments": {
            "get": {
                "tags": ["Homebase"],
                "summary": "Current homebase assignments of the acting program",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
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
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["username", "password"]
        },
        "OpenSessionRequest": {
            "type": "object",
            "properties": {
                "term_id": {"type": "string"},
                "batch_id": {"type": "string"},
                "section_id": {"type": "string"},
                "academic_year": {"type": "string"}
            },
            "required": ["term_id", "batch_id", "section_id", "academic_year"]
        },
        "AssignInstructorRequest": {
            "type": "object",
            "properties": {
                "course_offering_id": {"type": "string"},
                "instructor_id": {"type": "string"}
            },
            "required": ["course_offering_id", "instructor_id"]
        },
        "DropRequest": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "start_time": {"type": "string"},
                "payload": {"type": "object"}
            },
            "required": ["day", "start_time", "payload"]
        },
        "ShareWithProgramRequest": {
            "type": "object",
            "properties": {
                "term_id": {"type": "string"},
                "section_id": {"type": "string"},
                "target_program_id": {"type": "string"},
                "course_offering_ids": {
                    "type": "array",
                    "items": {"type": "string"}
                },
                "requested_day": {"type": "string"},
                "requested_time": {"type": "string"}
            },
            "required": ["term_id", "section_id", "target_program_id", "course_offering_ids"]
        },
        "ExternalAssignmentsUpdate": {
            "type": "object",
            "properties": {
                "assignments": {"type": "array", "items": {"type": "object"}},
                "assigned_instructor_id": {"type": "string"},
                "assigned_instructor_name": {"type": "string"}
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
