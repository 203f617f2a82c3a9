package components

import (
	"context"

	"github.com/contractflow/dashboard/internal/errors"
	"github.com/contractflow/dashboard/pkg/model"
	"github.com/contractflow/dashboard/pkg/vdom"
)

// AuthForm modes.
const (
	ModeLogin    = "login"
	ModeRegister = "register"
)

// Auth form field names read by the login and register actions.
const (
	FieldEmail            = "email"
	FieldPassword         = "password"
	FieldName             = "name"
	FieldAccountType      = "accountType"
	FieldOrganizationName = "organizationName"
	FieldRedirect         = "redirect"
)

type authForm struct {
	deps Deps
}

func newAuthForm(d Deps) (Component, error) {
	return &authForm{deps: d}, nil
}

func (c *authForm) Render(_ context.Context, props Props) (*vdom.VNode, error) {
	switch props.Mode {
	case ModeLogin, "":
		return c.login(props), nil
	case ModeRegister:
		return c.register(), nil
	default:
		return nil, errors.New("E450").WithDetailf("unknown auth form mode %q", props.Mode)
	}
}

func authHeader(title, subtitle string) *vdom.VNode {
	return vdom.Div(vdom.Class("auth-header"),
		vdom.H1(vdom.Class("auth-title"), icon("fas fa-file-contract"), " ContractFlow"),
		vdom.H2(title),
		vdom.P(subtitle),
	)
}

func (c *authForm) login(props Props) *vdom.VNode {
	redirect := props.Query.Get(FieldRedirect)
	return vdom.Div(vdom.Class("auth-container"),
		vdom.Div(vdom.Class("auth-form-container"),
			authHeader("Sign In to Your Account", "Manage your contracts easily and efficiently"),
			vdom.Form(vdom.ID("login-form"), vdom.Class("auth-form"), vdom.DataAction("login"),
				field("email", "Email Address",
					textInput("email", FieldEmail, "email", "", vdom.Placeholder("Enter your email"), vdom.Required(), vdom.Autocomplete("email"))),
				field("password", "Password",
					textInput("password", FieldPassword, "password", "", vdom.Placeholder("Enter your password"), vdom.Required())),
				vdom.If(redirect != "", vdom.Input(vdom.Type("hidden"), vdom.Name(FieldRedirect), vdom.Value(redirect))),
				vdom.Button(vdom.ID("login-button"), vdom.Type("submit"), vdom.Class("btn btn-primary btn-block"), "Sign In"),
			),
			vdom.Div(vdom.Class("auth-footer"),
				vdom.P("Don't have an account? ", vdom.A(vdom.HashHref("/register"), "Sign Up")),
			),
			c.demoAccounts(),
		),
	)
}

func (c *authForm) demoAccounts() *vdom.VNode {
	if c.deps.Data == nil {
		return nil
	}
	return vdom.Div(vdom.ID("demo-accounts"), vdom.Class("test-account-info"),
		vdom.H4("Demo Accounts"),
		vdom.Div(vdom.Class("test-accounts"), vdom.Range(c.deps.Data.Users(), func(u model.User, _ int) *vdom.VNode {
			return vdom.Div(vdom.Class("test-account"),
				vdom.Div(vdom.Class("test-role"), roleLabel(u.Role)),
				vdom.Div(vdom.Class("test-email"), u.Email),
			)
		})),
		vdom.P(vdom.Class("text-secondary"), "Any password works for demo accounts."),
	)
}

func (c *authForm) register() *vdom.VNode {
	return vdom.Div(vdom.Class("auth-container"),
		vdom.Div(vdom.Class("auth-form-container"),
			authHeader("Create Your Account", "Start managing your contracts today"),
			vdom.Form(vdom.ID("register-form"), vdom.Class("auth-form"), vdom.DataAction("register"),
				field("name", "Full Name",
					textInput("name", FieldName, "text", "", vdom.Placeholder("Enter your full name"), vdom.Required())),
				field("email", "Email Address",
					textInput("email", FieldEmail, "email", "", vdom.Placeholder("Enter your email"), vdom.Required())),
				field("password", "Password",
					textInput("password", FieldPassword, "password", "", vdom.Required(), vdom.MinLength(8))),
				field("account-type", "Account Type", selectInput("account-type", FieldAccountType, string(model.AccountPersonal), [][2]string{
					{string(model.AccountPersonal), "Personal"},
					{string(model.AccountBusiness), "Business"},
				})),
				field("organization-name", "Organization Name (business accounts)",
					textInput("organization-name", FieldOrganizationName, "text", "", vdom.Placeholder("Your company name"))),
				vdom.Button(vdom.ID("register-button"), vdom.Type("submit"), vdom.Class("btn btn-primary btn-block"), "Create Account"),
			),
			vdom.Div(vdom.Class("auth-footer"),
				vdom.P("Already have an account? ", vdom.A(vdom.HashHref("/login"), "Sign In")),
			),
		),
	)
}
