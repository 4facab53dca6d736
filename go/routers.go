package petstoreserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// Routes is the list of the generated Route.
type Routes []Route

// ApiHandleFunctions groups the per-context API handlers bound to the router.
type ApiHandleFunctions struct {
	PetAPI      PetAPI
	OrderAPI    OrderAPI
	CustomerAPI CustomerAPI
}

// NewRouter returns a new router with registered routes.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes and middleware to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	router.Use(requestID())
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = defaultHandler
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// requestID stamps every request with an id for log correlation, honoring a
// caller-provided X-Request-ID.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func defaultHandler(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{})
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			Name:        "AddPet",
			Method:      http.MethodPost,
			Pattern:     "/v1/pets",
			HandlerFunc: handleFunctions.PetAPI.AddPet,
		},
		{
			Name:        "ListPets",
			Method:      http.MethodGet,
			Pattern:     "/v1/pets",
			HandlerFunc: handleFunctions.PetAPI.ListPets,
		},
		{
			Name:        "FindPetsByStatus",
			Method:      http.MethodGet,
			Pattern:     "/v1/pets/findByStatus",
			HandlerFunc: handleFunctions.PetAPI.FindPetsByStatus,
		},
		{
			Name:        "GetPetById",
			Method:      http.MethodGet,
			Pattern:     "/v1/pets/:petId",
			HandlerFunc: handleFunctions.PetAPI.GetPetById,
		},
		{
			Name:        "UpdatePet",
			Method:      http.MethodPut,
			Pattern:     "/v1/pets/:petId",
			HandlerFunc: handleFunctions.PetAPI.UpdatePet,
		},
		{
			Name:        "UpdatePetStatus",
			Method:      http.MethodPut,
			Pattern:     "/v1/pets/:petId/status",
			HandlerFunc: handleFunctions.PetAPI.UpdatePetStatus,
		},
		{
			Name:        "PlaceOrder",
			Method:      http.MethodPost,
			Pattern:     "/v1/orders",
			HandlerFunc: handleFunctions.OrderAPI.PlaceOrder,
		},
		{
			Name:        "GetOrderById",
			Method:      http.MethodGet,
			Pattern:     "/v1/orders/:orderId",
			HandlerFunc: handleFunctions.OrderAPI.GetOrderById,
		},
		{
			Name:        "ApproveOrder",
			Method:      http.MethodPost,
			Pattern:     "/v1/orders/:orderId/approve",
			HandlerFunc: handleFunctions.OrderAPI.ApproveOrder,
		},
		{
			Name:        "FulfillOrder",
			Method:      http.MethodPost,
			Pattern:     "/v1/orders/:orderId/fulfill",
			HandlerFunc: handleFunctions.OrderAPI.FulfillOrder,
		},
		{
			Name:        "CancelOrder",
			Method:      http.MethodPost,
			Pattern:     "/v1/orders/:orderId/cancel",
			HandlerFunc: handleFunctions.OrderAPI.CancelOrder,
		},
		{
			Name:        "GetInventory",
			Method:      http.MethodGet,
			Pattern:     "/v1/store/inventory",
			HandlerFunc: handleFunctions.OrderAPI.GetInventory,
		},
		{
			Name:        "RegisterCustomer",
			Method:      http.MethodPost,
			Pattern:     "/v1/customers",
			HandlerFunc: handleFunctions.CustomerAPI.RegisterCustomer,
		},
		{
			Name:        "GetCustomerById",
			Method:      http.MethodGet,
			Pattern:     "/v1/customers/:customerId",
			HandlerFunc: handleFunctions.CustomerAPI.GetCustomerById,
		},
		{
			Name:        "ListCustomerOrders",
			Method:      http.MethodGet,
			Pattern:     "/v1/customers/:customerId/orders",
			HandlerFunc: handleFunctions.OrderAPI.ListCustomerOrders,
		},
	}
}
