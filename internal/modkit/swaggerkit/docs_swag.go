//go:build swag

package swaggerkit

import docs "missionsync/internal/services/api/docs"

func init() { docReader = docs.SwaggerInfo.ReadDoc }
