package middleware

import "github.com/gin-gonic/gin"

// employeeIDKey is the key used to store the authenticated employee's ID in
// the request context. Using a custom type prevents collisions.
const employeeIDKey = contextKey("employeeID")

// GetEmployeeIDFromContext retrieves the authenticated employee ID from the Gin context.
// It returns the employee ID and a boolean indicating if it was found.
func GetEmployeeIDFromContext(c *gin.Context) (string, bool) {
	employeeIDVal, exists := c.Get(string(employeeIDKey))
	if !exists {
		// check in the request context as well
		ctxVal := c.Request.Context().Value(employeeIDKey)
		if ctxVal != nil {
			if employeeID, ok := ctxVal.(string); ok {
				return employeeID, true
			}
		}
		return "", false
	}

	employeeID, ok := employeeIDVal.(string)
	if !ok {
		return "", false
	}

	return employeeID, true
}
