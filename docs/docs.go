// Package docs holds the OpenAPI document served at /api/swagger. It is kept
// by hand and covers the social core routes; run swag init against
// cmd/server/main.go to expand it from the handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@gymvy.app"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/comment-likes/toggle": {
            "post": {
                "description": "shouldNotify is true only for a new like whose comment author follows the liker.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["likes"],
                "summary": "Toggle a like on a comment",
                "parameters": [
                    {
                        "description": "Toggle",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "commentId": {"type": "integer"},
                                "userId": {"type": "integer"}
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.CommentLikeToggleResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/feature-flags": {
            "get": {
                "description": "Anonymous callers see rollout flags evaluated as off.",
                "produces": ["application/json"],
                "tags": ["flags"],
                "summary": "Feature flags",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/feed/following/{userId}": {
            "get": {
                "description": "Published posts by the viewer and everyone they follow, newest first.",
                "produces": ["application/json"],
                "tags": ["feed"],
                "summary": "Following feed",
                "parameters": [
                    {"type": "integer", "description": "Viewer", "name": "userId", "in": "path", "required": true},
                    {"type": "integer", "description": "Exclusive upper bound on post id", "name": "cursor", "in": "query"},
                    {"type": "integer", "description": "Page size (default 10, max 50)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.FeedPage"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/likes/toggle": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["likes"],
                "summary": "Toggle a like on a post or split",
                "parameters": [
                    {
                        "description": "Exactly one of postId or splitId",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/server.likeRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ToggleResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/users/{username}/follow": {
            "post": {
                "description": "Idempotent: following someone already followed succeeds with alreadyFollowing.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["graph"],
                "summary": "Follow a user",
                "parameters": [
                    {"type": "string", "description": "User to follow", "name": "username", "in": "path", "required": true},
                    {
                        "description": "Acting user",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object", "properties": {"followerId": {"type": "integer"}}}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.FollowResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/webhooks/notification-created": {
            "post": {
                "description": "Called by the database trigger. Non-INSERT events, self-notifications and gated comment likes are acknowledged without a push.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["webhooks"],
                "summary": "Deliver a newly inserted notification row",
                "parameters": [
                    {"type": "string", "description": "Shared secret", "name": "X-Webhook-Secret", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.webhookResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.CommentLikeToggleResult": {
            "type": "object",
            "properties": {
                "commentAuthorId": {"type": "integer"},
                "likeCount": {"type": "integer"},
                "liked": {"type": "boolean"},
                "postId": {"type": "integer"},
                "shouldNotify": {"type": "boolean"}
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "models.FeedPage": {
            "type": "object",
            "properties": {
                "hasMore": {"type": "boolean"},
                "nextCursor": {"type": "integer"},
                "posts": {"type": "array", "items": {"type": "object"}}
            }
        },
        "models.FollowResult": {
            "type": "object",
            "properties": {
                "alreadyFollowing": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "models.ToggleResult": {
            "type": "object",
            "properties": {
                "likeCount": {"type": "integer"},
                "liked": {"type": "boolean"}
            }
        },
        "server.likeRequest": {
            "type": "object",
            "properties": {
                "postId": {"type": "integer"},
                "splitId": {"type": "integer"},
                "userId": {"type": "integer"}
            }
        },
        "server.webhookResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Gymvy API",
	Description:      "Social fitness API: follows, likes, comments, the following feed and push notifications",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
