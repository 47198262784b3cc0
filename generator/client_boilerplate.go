package generator

import (
	"bytes"
	"fmt"

	"github.com/erraggy/restgen/internal/naming"
)

// clientSource renders client.go: the SDK client embedding the runtime
// client, its constructor and one accessor per resource group.
func (r *run) clientSource() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by restgen. DO NOT EDIT.\n\npackage %s\n\n", r.packageName)
	fmt.Fprintf(&buf, "import %q\n\n", restclientImport)
	r.writeClientConstants(&buf)
	writeClientStruct(&buf, r.title())
	writeClientConstructor(&buf)
	for _, tag := range r.tags {
		writeResourceAccessor(&buf, tag)
	}
	return buf.Bytes()
}

func (r *run) title() string {
	if r.doc.Spec.Info == nil {
		return ""
	}
	return r.doc.Spec.Info.Title
}

func (r *run) writeClientConstants(buf *bytes.Buffer) {
	host := ""
	if len(r.doc.Spec.Servers) > 0 {
		host = serverURL(r.doc.Spec.Servers[0])
	}
	buf.WriteString("// DefaultHost is the first server declared by the API.\n")
	fmt.Fprintf(buf, "const DefaultHost = %q\n\n", host)
	buf.WriteString("// DefaultUserAgent is sent with every request unless replaced with\n// restclient.WithUserAgent.\n")
	fmt.Fprintf(buf, "const DefaultUserAgent = %q\n\n", buildDefaultUserAgent(r.title()))
}

// writeClientStruct writes the Client struct definition to the buffer.
func writeClientStruct(buf *bytes.Buffer, title string) {
	if title == "" {
		title = "API"
	}
	fmt.Fprintf(buf, "// Client is the %s client.\n", title)
	buf.WriteString("type Client struct {\n")
	buf.WriteString("\t*restclient.Client\n")
	buf.WriteString("}\n\n")
}

// writeClientConstructor writes the NewClient constructor function.
func writeClientConstructor(buf *bytes.Buffer) {
	buf.WriteString("// NewClient creates a client for host. An empty host uses DefaultHost.\n")
	buf.WriteString("func NewClient(host string, opts ...restclient.ClientOption) (*Client, error) {\n")
	buf.WriteString("\tif host == \"\" {\n")
	buf.WriteString("\t\thost = DefaultHost\n")
	buf.WriteString("\t}\n")
	buf.WriteString("\topts = append([]restclient.ClientOption{restclient.WithUserAgent(DefaultUserAgent)}, opts...)\n")
	buf.WriteString("\tc, err := restclient.New(host, opts...)\n")
	buf.WriteString("\tif err != nil {\n")
	buf.WriteString("\t\treturn nil, err\n")
	buf.WriteString("\t}\n")
	buf.WriteString("\treturn &Client{Client: c}, nil\n")
	buf.WriteString("}\n\n")
}

// writeResourceAccessor writes the method returning one resource group.
func writeResourceAccessor(buf *bytes.Buffer, tag string) {
	resource := naming.Pascal(tag)
	fmt.Fprintf(buf, "// %s returns the %s operations.\n", resource, naming.Title(tag))
	fmt.Fprintf(buf, "func (c *Client) %s() *%s {\n", resource, resource)
	fmt.Fprintf(buf, "\treturn &%s{client: c.Client}\n", resource)
	buf.WriteString("}\n\n")
}
