package cmd

// Options is the root for the CLI. Struct tags are interpreted by
// github.com/jessevdk/go-flags.
type Options struct {
	Config string `short:"f" long:"config" description:"configuration YAML path or URL (environment variables override it)"`

	CreateGateway *CreateGatewayCmd `command:"create-gateway" description:"Create the gateway IAM role and an MCP gateway with a Cognito JWT authorizer"`
	AddTarget     *AddTargetCmd     `command:"add-target"     description:"Attach the knowledge base Lambda proxy to a gateway"`
	UpdateTarget  *UpdateTargetCmd  `command:"update-target"  description:"Replace the Lambda ARN and tool schema of a gateway target"`
	ListTargets   *ListTargetsCmd   `command:"list-targets"   description:"List gateway targets"`
	Tools         *ToolsCmd         `command:"tools"          description:"Print the tools exposed by the proxy"`
	Invoke        *InvokeCmd        `command:"invoke"         description:"Run the proxy handler locally against an event"`
	Serve         *ServeCmd         `command:"serve"          description:"Start a local MCP server exposing the proxy tools"`
}

// Init instantiates the sub-command referenced by the first positional argument
// so that go-flags can populate its fields.
func (o *Options) Init(firstArg string) {
	switch firstArg {
	case "create-gateway":
		o.CreateGateway = &CreateGatewayCmd{}
	case "add-target":
		o.AddTarget = &AddTargetCmd{}
	case "update-target":
		o.UpdateTarget = &UpdateTargetCmd{}
	case "list-targets":
		o.ListTargets = &ListTargetsCmd{}
	case "tools":
		o.Tools = &ToolsCmd{}
	case "invoke":
		o.Invoke = &InvokeCmd{}
	case "serve":
		o.Serve = &ServeCmd{}
	}
}
