// Package gateway provides a client for MCP servers hosted behind an MCP
// Gateway.
//
// A gateway exposes each named server under four REST endpoints:
//
//	GET  {baseURL}/mcp-server/{name}/tools
//	GET  {baseURL}/mcp-server/{name}/resources
//	GET  {baseURL}/mcp-server/{name}/prompts
//	POST {baseURL}/mcp-server/{name}/tools/{toolName}
//
// The client fetches the three catalogs once, caches them in memory, and
// invokes tools by name with JSON parameters.
//
// # Creating a Client
//
//	import (
//	    "context"
//	    "fmt"
//
//	    "github.com/mcpgateway/gateway-go/pkg/gateway"
//	)
//
//	func main() {
//	    c := gateway.New("http://localhost:8080", "get-user")
//
//	    ctx := context.Background()
//	    if err := c.Initialize(ctx); err != nil {
//	        // Some catalogs may be missing; the client is still usable
//	        fmt.Println("partial initialization:", err)
//	    }
//
//	    for _, tool := range c.Tools() {
//	        fmt.Printf("- %s: %s\n", tool.Name(), tool.Description())
//	    }
//
//	    result, err := c.InvokeTool(ctx, "echo", map[string]interface{}{"msg": "hi"})
//	    if err != nil {
//	        // Handle error
//	        return
//	    }
//	    fmt.Println(result)
//	}
//
// Failures are returned as structured errors from the
// github.com/mcpgateway/gateway-go/pkg/errors package; use its predicates to
// distinguish a missing tool from a non-200 response or a network fault.
package gateway
