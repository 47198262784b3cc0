package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/restgen/generator"
)

type vendorsInput struct {
	Name string `json:"name,omitempty" jsonschema:"Show only this vendor profile"`
}

type vendorInfo struct {
	Name                 string            `json:"name"`
	Drivers              []string          `json:"drivers"`
	NoiseParameters      []string          `json:"noise_parameters,omitempty"`
	PaginationParameters []string          `json:"pagination_parameters,omitempty"`
	TagRenames           map[string]string `json:"tag_renames,omitempty"`
	LinkHeaderArrays     bool              `json:"link_header_arrays,omitempty"`
	PageTokenParam       string            `json:"page_token_param,omitempty"`
	PageSize             int               `json:"page_size,omitempty"`
}

type vendorsOutput struct {
	Default string       `json:"default"`
	Vendors []vendorInfo `json:"vendors"`
}

func handleVendors(_ context.Context, _ *mcp.CallToolRequest, input vendorsInput) (*mcp.CallToolResult, vendorsOutput, error) {
	names := generator.VendorNames()
	if input.Name != "" {
		names = []string{input.Name}
	}

	output := vendorsOutput{Default: cfg.Vendor}
	output.Vendors = makeSlice[vendorInfo](len(names))
	for _, name := range names {
		p, err := generator.BuiltinVendor(name)
		if err != nil {
			return errResult(err), vendorsOutput{}, nil
		}
		output.Vendors = append(output.Vendors, describeVendor(p))
	}
	return nil, output, nil
}

func describeVendor(p *generator.VendorProfile) vendorInfo {
	info := vendorInfo{
		Name:                 p.Name,
		NoiseParameters:      p.NoiseParameters,
		PaginationParameters: p.PaginationParameters,
		TagRenames:           p.TagRenames,
		LinkHeaderArrays:     p.LinkHeaderArrays,
		PageTokenParam:       p.PageTokenParam,
		PageSize:             p.PageSize,
	}
	info.Drivers = makeSlice[string](len(p.Drivers))
	for _, d := range p.Drivers {
		info.Drivers = append(info.Drivers, string(d))
	}
	return info
}
