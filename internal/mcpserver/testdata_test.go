package mcpserver

const widgetsSpec = `openapi: 3.0.3
info:
  title: Widgets
  version: "1.0"
servers:
  - url: https://api.example.com
paths:
  /v1/widgets:
    get:
      operationId: listWidgets
      parameters:
        - {name: starting_after, in: query, schema: {type: string}}
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: object
                properties:
                  has_more: {type: boolean}
                  data:
                    type: array
                    items: {$ref: '#/components/schemas/Widget'}
  /v1/reports:
    get:
      operationId: getReport
      responses:
        "200":
          description: ok
          content:
            application/xml:
              schema: {type: string}
components:
  schemas:
    Widget:
      type: object
      properties:
        id: {type: string}
`
