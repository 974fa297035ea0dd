// Package docs registra a documentação OpenAPI servida em /swagger/doc.json.
// Regenerar com: swag init -g cmd/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/catalog/{view}": {
            "get": {
                "tags": ["catalog"],
                "summary": "Lista uma visão do catálogo",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "view", "in": "path", "required": true, "enum": ["products", "artisans", "categories", "orders", "comments"]},
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "number", "name": "min_price", "in": "query"},
                    {"type": "number", "name": "max_price", "in": "query"},
                    {"type": "string", "name": "sort", "in": "query", "enum": ["relevance", "newest", "price-asc", "price-desc", "name"]},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Parâmetro inválido", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "403": {"description": "Visão restrita a administradores", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/catalog/{view}/refresh": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["catalog"],
                "summary": "Descarta a fotografia em cache da visão",
                "parameters": [{"type": "string", "name": "view", "in": "path", "required": true}],
                "responses": {"204": {"description": "Fotografia descartada"}}
            }
        },
        "/stats/{view}": {
            "get": {
                "tags": ["catalog"],
                "summary": "Cards de estatística de uma visão",
                "parameters": [{"type": "string", "name": "view", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/cart": {
            "get": {"tags": ["cart"], "summary": "Carrinho da sessão", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["cart"], "summary": "Esvazia o carrinho", "responses": {"200": {"description": "OK"}}}
        },
        "/cart/items": {
            "post": {
                "tags": ["cart"],
                "summary": "Adiciona um produto ao carrinho",
                "parameters": [{"name": "item", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.AddToCartRequest"}}],
                "responses": {
                    "200": {"description": "OK"},
                    "422": {"description": "Produto fora de estoque", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/cart/items/{productId}": {
            "put": {
                "tags": ["cart"],
                "summary": "Altera a quantidade de uma linha",
                "parameters": [
                    {"type": "string", "name": "productId", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.UpdateQuantityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "422": {"description": "Quantidade fora de [1, estoque]", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["cart"],
                "summary": "Remove uma linha do carrinho",
                "parameters": [{"type": "string", "name": "productId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/wishlist": {
            "get": {"tags": ["wishlist"], "summary": "Wishlist da sessão", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["wishlist"], "summary": "Esvazia a wishlist", "responses": {"200": {"description": "OK"}}}
        },
        "/wishlist/toggle": {
            "post": {
                "tags": ["wishlist"],
                "summary": "Inverte a presença de um produto na wishlist",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.ToggleWishlistRequest"}}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/wishlist/items/{productId}": {
            "delete": {
                "tags": ["wishlist"],
                "summary": "Remove um produto da wishlist",
                "parameters": [{"type": "string", "name": "productId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "domain.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 422},
                "category": {"type": "string", "example": "INVALID_QUANTITY"},
                "message": {"type": "string"}
            }
        },
        "domain.AddToCartRequest": {
            "type": "object",
            "required": ["product_id"],
            "properties": {"product_id": {"type": "string"}, "quantity": {"type": "integer"}}
        },
        "domain.UpdateQuantityRequest": {
            "type": "object",
            "properties": {"quantity": {"type": "integer"}}
        },
        "domain.ToggleWishlistRequest": {
            "type": "object",
            "required": ["product_id"],
            "properties": {"product_id": {"type": "string"}}
        }
    }
}`

// SwaggerInfo guarda as informações exportadas da documentação.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "GoVitrine API",
	Description:      "Catálogo, carrinho e wishlist da vitrine de artesanato.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
