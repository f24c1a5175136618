package docs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag/v2"
)

func TestSwaggerInfo_Registered(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var spec struct {
		Swagger string                    `json:"swagger"`
		Info    map[string]any            `json:"info"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &spec))

	assert.Equal(t, "2.0", spec.Swagger)
	assert.Equal(t, "FulfillSync API", spec.Info["title"])

	tests := []struct {
		path   string
		method string
	}{
		{"/v1/inventory/sync", "post"},
		{"/v1/inventory/sync", "get"},
		{"/v1/inventory/schedule/{id}/run", "post"},
		{"/warehouse/transfer", "post"},
		{"/v1/warehouse/transfer", "post"},
		{"/v1/webhooks/fulfillment", "post"},
		{"/v1/webhooks/deliveries/{id}/replay", "post"},
		{"/v1/integrations/{provider}/connect", "get"},
		{"/oauth/callback", "get"},
		{"/health", "get"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			require.Contains(t, spec.Paths, tt.path)
			assert.Contains(t, spec.Paths[tt.path], tt.method)
		})
	}
}

func TestSwaggerInfo_ServedByGinSwagger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/v1/warehouse/transfer")
	assert.Contains(t, w.Body.String(), "ApiKeyAuth")
}
