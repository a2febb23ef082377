package users

import "github.com/gin-gonic/gin"

// SetupWebhookRoutes registers the identity-provider webhook endpoint
func SetupWebhookRoutes(rg *gin.RouterGroup, ctrl WebhookController) {
	webhooks := rg.Group("/webhooks")
	{
		webhooks.POST("/identity", ctrl.HandleIdentityEvent)
	}
}
