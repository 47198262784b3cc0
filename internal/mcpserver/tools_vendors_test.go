package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/restgen/generator"
)

func TestVendorsTool(t *testing.T) {
	result, output, err := handleVendors(context.Background(), &mcp.CallToolRequest{}, vendorsInput{})
	require.NoError(t, err)
	require.Nil(t, result)
	assert.Len(t, output.Vendors, len(generator.VendorNames()))
	assert.Equal(t, cfg.Vendor, output.Default)

	for _, v := range output.Vendors {
		assert.NotEmpty(t, v.Drivers, v.Name)
	}
}

func TestVendorsTool_Single(t *testing.T) {
	_, output, err := handleVendors(context.Background(), &mcp.CallToolRequest{}, vendorsInput{Name: "github"})
	require.NoError(t, err)
	require.Len(t, output.Vendors, 1)
	v := output.Vendors[0]
	assert.Equal(t, "github", v.Name)
	assert.Equal(t, []string{"link_header"}, v.Drivers)
	assert.True(t, v.LinkHeaderArrays)
}

func TestVendorsTool_Unknown(t *testing.T) {
	result, _, err := handleVendors(context.Background(), &mcp.CallToolRequest{}, vendorsInput{Name: "acme"})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestRegisterAllTools(t *testing.T) {
	server := mcp.NewServer(&mcp.Implementation{Name: "restgen", Version: "test"}, nil)
	assert.NotPanics(t, func() { registerAllTools(server) })
}
