package help

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/qrm/internal/command"
	"github.com/keshon/qrm/internal/config"
)

type fakeCmd struct {
	command.Sub
	name    string
	aliases []string
	cat     config.Category
	hidden  bool
	usage   string
	help    string
	subs    []command.Command
	check   func() (bool, error)
	checks  int
}

func (f *fakeCmd) Name() string                      { return f.name }
func (f *fakeCmd) Description() string               { return f.name + " description" }
func (f *fakeCmd) Aliases() []string                 { return f.aliases }
func (f *fakeCmd) Category() config.Category         { return f.cat }
func (f *fakeCmd) Hidden() bool                      { return f.hidden }
func (f *fakeCmd) Usage() string                     { return f.usage }
func (f *fakeCmd) Help() string                      { return f.help }
func (f *fakeCmd) Subcommands() []command.Command    { return f.subs }
func (f *fakeCmd) Run(inv *command.Invocation) error { return nil }

func (f *fakeCmd) CanRun(context.Context, *command.Caller) (bool, error) {
	f.checks++
	if f.check == nil {
		return true, nil
	}
	return f.check()
}

func deny() (bool, error)   { return false, nil }
func broken() (bool, error) { return false, errors.New("lookup failed") }

func names(cmds []command.Command) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c.Name()
	}
	return out
}

var caller = &command.Caller{UserID: "1", Prefix: "?", Prefixes: []string{"?"}}

func TestFilterVisibleOrder(t *testing.T) {
	cmds := []command.Command{
		&fakeCmd{name: "zeta", cat: config.Category(99)},
		&fakeCmd{name: "ping", cat: config.CategoryInfo},
		&fakeCmd{name: "echo", cat: config.CategoryAdmin},
		&fakeCmd{name: "alpha", cat: config.CategoryOther},
		&fakeCmd{name: "changelog", cat: config.CategoryInfo},
		&fakeCmd{name: "call", cat: config.CategoryLookup},
		&fakeCmd{name: "morse", cat: config.CategoryCodes},
	}

	got := FilterVisible(context.Background(), cmds, caller, false)

	assert.Equal(t, []string{"changelog", "ping", "call", "morse", "echo", "alpha", "zeta"}, names(got))
}

func TestFilterVisibleExclusions(t *testing.T) {
	secret := &fakeCmd{name: "secret", cat: config.CategoryAdmin, hidden: true}
	refused := &fakeCmd{name: "refused", cat: config.CategoryInfo, check: deny}
	failing := &fakeCmd{name: "failing", cat: config.CategoryInfo, check: broken}
	ok := &fakeCmd{name: "ok", cat: config.CategoryInfo}
	cmds := []command.Command{secret, refused, failing, ok, ok}

	got := FilterVisible(context.Background(), cmds, caller, false)
	assert.Equal(t, []string{"ok"}, names(got))
	assert.Equal(t, 1, refused.checks)
	assert.Equal(t, 1, failing.checks)
	assert.Equal(t, 1, ok.checks, "duplicates are checked once")
	assert.Zero(t, secret.checks, "hidden commands are not checked")

	got = FilterVisible(context.Background(), cmds, caller, true)
	assert.Equal(t, []string{"ok", "secret"}, names(got))
}

func TestFilterVisibleEmpty(t *testing.T) {
	assert.Empty(t, FilterVisible(context.Background(), nil, caller, false))
}

func TestMapping(t *testing.T) {
	cmds := []command.Command{
		&fakeCmd{name: "b", cat: config.CategoryFun},
		&fakeCmd{name: "x", cat: config.Category(42)},
		&fakeCmd{name: "a", cat: config.CategoryFun},
		&fakeCmd{name: "help", cat: config.CategoryInfo},
	}

	buckets := Mapping(cmds)

	require.Len(t, buckets, 3)
	assert.Equal(t, config.CategoryInfo, buckets[0].Category)
	assert.Equal(t, config.CategoryFun, buckets[1].Category)
	assert.Equal(t, []string{"a", "b"}, names(buckets[1].Commands))
	assert.Equal(t, config.CategoryOther, buckets[2].Category)
	assert.Equal(t, []string{"x"}, names(buckets[2].Commands))
}

func TestSignature(t *testing.T) {
	cmd := &fakeCmd{name: "changelog", usage: "[version]", aliases: []string{"clog", "cl"}}
	assert.Equal(t, "?changelog [version]\n    *Aliases:* clog, cl", Signature(cmd, "?"))

	assert.Equal(t, "/ping", Signature(&fakeCmd{name: "ping"}, "/"))
}

func newRegistry(t *testing.T, cmds ...command.Command) *command.Registry {
	t.Helper()
	reg := command.NewRegistry()
	require.NoError(t, reg.Register(cmds...))
	return reg
}

func TestOverview(t *testing.T) {
	reg := newRegistry(t,
		&fakeCmd{name: "ping", cat: config.CategoryInfo},
		&fakeCmd{name: "help", cat: config.CategoryInfo},
		&fakeCmd{name: "echo", cat: config.CategoryAdmin, check: deny},
		&fakeCmd{name: "grid", cat: config.CategoryCalc},
		&fakeCmd{name: "misc"},
	)
	c := &command.Caller{Prefix: "!", Prefixes: []string{"?", "!"}}

	l := New("qrm", reg).Overview(context.Background(), c)

	assert.Equal(t, "qrm Help", l.Title)
	assert.True(t, strings.HasPrefix(l.Description, "For command-specific help and usage, use `!help [command name]`."))
	assert.Contains(t, l.Description, "All of the following prefixes work with the bot: `?`, `!`.")
	require.Len(t, l.Fields, 3)
	assert.Equal(t, "Information", l.Fields[0].Name)
	assert.Equal(t, "help, ping", l.Fields[0].Value)
	assert.Equal(t, "Calculators", l.Fields[1].Name)
	assert.Equal(t, "Other", l.Fields[2].Name)
	assert.Equal(t, "misc", l.Fields[2].Value)
}

func TestOverviewSinglePrefix(t *testing.T) {
	l := New("qrm", newRegistry(t)).Overview(context.Background(), caller)
	assert.NotContains(t, l.Description, "All of the following prefixes")
	assert.Empty(t, l.Fields)
}

func TestCommandDetail(t *testing.T) {
	cmd := &fakeCmd{name: "changelog", usage: "[version]", help: "Shows what has changed."}

	l, err := RenderCommandDetail(context.Background(), cmd, caller)
	require.NoError(t, err)
	assert.Equal(t, "?changelog [version]", l.Title)
	assert.Equal(t, "Shows what has changed.", l.Description)

	noHelp := &fakeCmd{name: "ping"}
	l, err = RenderCommandDetail(context.Background(), noHelp, caller)
	require.NoError(t, err)
	assert.Equal(t, "ping description", l.Description)
}

func TestCommandDetailNotPermitted(t *testing.T) {
	for name, check := range map[string]func() (bool, error){"refused": deny, "failing": broken} {
		t.Run(name, func(t *testing.T) {
			l, err := RenderCommandDetail(context.Background(), &fakeCmd{name: "echo", check: check}, caller)
			assert.ErrorIs(t, err, command.ErrNotPermitted)
			assert.Nil(t, l)
		})
	}
}

func TestGroupDetail(t *testing.T) {
	list := &fakeCmd{name: "list", aliases: []string{"ls"}, help: "Lists commands."}
	refresh := &fakeCmd{name: "refresh", check: deny}
	secret := &fakeCmd{name: "secret", hidden: true}
	group := &fakeCmd{name: "cmds", usage: "<subcommand>", subs: []command.Command{refresh, list, secret}}
	reg := newRegistry(t, group)

	l, err := New("qrm", reg).Describe(context.Background(), caller, []string{"cmds"})
	require.NoError(t, err)
	assert.Equal(t, "?cmds <subcommand>", l.Title)
	require.Len(t, l.Fields, 1)
	assert.Equal(t, "?cmds list\n    *Aliases:* ls", l.Fields[0].Name)
	assert.Equal(t, "Lists commands.", l.Fields[0].Value)

	// a child is only described when its group may run too
	group.check = deny
	_, err = New("qrm", reg).Describe(context.Background(), caller, []string{"cmds", "list"})
	assert.ErrorIs(t, err, command.ErrNotPermitted)
	_, err = RenderGroupDetail(context.Background(), group, caller)
	assert.ErrorIs(t, err, command.ErrNotPermitted)
}

func TestResolve(t *testing.T) {
	list := &fakeCmd{name: "list", aliases: []string{"ls"}}
	reg := newRegistry(t,
		&fakeCmd{name: "cmds", subs: []command.Command{list}},
		&fakeCmd{name: "ping", aliases: []string{"p"}},
	)
	h := New("qrm", reg)

	cmd, err := h.Resolve([]string{"CMDS", "ls"})
	require.NoError(t, err)
	assert.Same(t, list, cmd)
	assert.Equal(t, "cmds list", command.QualifiedName(cmd))

	cmd, err = h.Resolve([]string{"p"})
	require.NoError(t, err)
	assert.Equal(t, "ping", cmd.Name())

	tests := []struct {
		path []string
		want string
	}{
		{[]string{"nope"}, `No command called "nope" found.`},
		{[]string{"ping", "x"}, `Command "ping" has no subcommands.`},
		{[]string{"cmds", "nope"}, `Command "cmds" has no subcommand named nope`},
	}
	for _, tt := range tests {
		_, err := h.Resolve(tt.path)
		var nf *NotFoundError
		require.True(t, errors.As(err, &nf), tt.path)
		assert.Equal(t, tt.want, nf.Error())

		l, err := h.Describe(context.Background(), caller, tt.path)
		require.NoError(t, err)
		assert.Equal(t, "qrm Help Error", l.Title)
		assert.Equal(t, tt.want, l.Description)
	}
}

func TestDescribeEmptyPath(t *testing.T) {
	l, err := New("qrm", newRegistry(t, &fakeCmd{name: "ping", cat: config.CategoryInfo})).
		Describe(context.Background(), caller, nil)
	require.NoError(t, err)
	assert.Equal(t, "qrm Help", l.Title)
}

func TestCatalogAndSections(t *testing.T) {
	reg := newRegistry(t,
		&fakeCmd{name: "ping", cat: config.CategoryInfo},
		&fakeCmd{name: "changelog", cat: config.CategoryInfo, usage: "[version]", aliases: []string{"clog"}},
		&fakeCmd{name: "echo", cat: config.CategoryAdmin, check: deny},
		&fakeCmd{name: "cmds", cat: config.CategoryAdmin, hidden: true},
	)

	buckets := Catalog(reg.All())
	require.Len(t, buckets, 2)
	assert.Equal(t, []string{"echo"}, names(buckets[1].Commands), "predicates are not evaluated")

	var sb strings.Builder
	require.NoError(t, WriteReadme(&sb, DefaultReadmeTemplate, "qrm", "A bot.", buckets, "?"))
	out := sb.String()
	assert.Contains(t, out, "# qrm\n\nA bot.")
	assert.Contains(t, out, "### Information\n\n* **`?changelog [version]`**\n  changelog description\n  *Aliases:* clog\n")
	assert.Contains(t, out, "### Bot Control")
	assert.NotContains(t, out, "cmds")
}
