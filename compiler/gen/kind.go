package gen

import (
	"fmt"
	"strings"

	"github.com/syssam/layergen/schema"
)

// Layer is the generated project an artifact belongs to.
type Layer string

// Layers of the generated solution.
const (
	LayerContract Layer = "Contract"
	LayerData     Layer = "Data"
	LayerAPI      Layer = "Api"
	LayerSDK      Layer = "Sdk"
)

// Selection chooses the columns declared in $Properties.
type Selection uint8

// Column selections.
const (
	SelectNone Selection = iota
	SelectAll
	SelectKey
	SelectNonKey
)

// String returns the name of the selection.
func (s Selection) String() string {
	switch s {
	case SelectAll:
		return "all"
	case SelectKey:
		return "key"
	case SelectNonKey:
		return "non-key"
	default:
		return "none"
	}
}

// Kind describes a category of generated artifact.
type Kind struct {
	// Name identifies the kind on the command line.
	Name string
	// Template is the template id rendered for the kind.
	Template string
	// LegacyTemplate, if set, replaces Template when the legacy ORM is selected.
	LegacyTemplate string
	// Layer is the generated project of the artifact.
	Layer Layer
	// Columns selects the declared properties.
	Columns Selection
	// ReadOnly reports whether the kind also applies to views, procedures
	// and projections. Kinds that are not read-only apply to tables only.
	ReadOnly bool
	// RouteBound binds key parameters to route values.
	RouteBound bool
	// Source is the object named in $KeySourceArguments and $KeyAssignments.
	Source string
	// Aggregate kinds render once per component from the whole index.
	Aggregate bool
	// Path is the output path pattern, expanded with the substitution context.
	Path string
	// Description describes the artifact.
	Description string
}

// TemplateID returns the template id to render.
func (k *Kind) TemplateID(legacy bool) string {
	if legacy && k.LegacyTemplate != "" {
		return k.LegacyTemplate
	}
	return k.Template
}

// Applies reports whether the kind is generated for the entity.
func (k *Kind) Applies(e schema.Entity) bool {
	return !k.Aggregate && (k.ReadOnly || e.Writable())
}

// String returns the name of the kind.
func (k *Kind) String() string { return k.Name }

const (
	contractDir = "$Platform.$Component.Contract/$Feature/"
	dataDir     = "$Platform.$Component.Data/$Feature/"
	apiDir      = "$Platform.$Component.Api/$Feature/"
	sdkDir      = "$Platform.$Component.Sdk/$Feature/"
)

var (
	// KindPolicy generates the authorization policy of an entity.
	KindPolicy = &Kind{
		Name:        "policy",
		Template:    "policy",
		Layer:       LayerContract,
		Columns:     SelectNone,
		ReadOnly:    true,
		Path:        contractDir + "Policies/$EntityPolicy.cs",
		Description: "Authorization policy names of the entity",
	}

	// KindQuery generates the single-entity query of an entity.
	KindQuery = &Kind{
		Name:        "query",
		Template:    "query",
		Layer:       LayerContract,
		Columns:     SelectKey,
		ReadOnly:    true,
		Path:        contractDir + "Queries/Get$EntityQuery.cs",
		Description: "Query returning one entity by key",
	}

	// KindCreateCommand generates the create command of a table entity.
	KindCreateCommand = &Kind{
		Name:        "command-create",
		Template:    "command-create",
		Layer:       LayerContract,
		Columns:     SelectAll,
		Source:      "create",
		Path:        contractDir + "Commands/Create$EntityCommand.cs",
		Description: "Command creating an entity",
	}

	// KindModifyCommand generates the modify command of a table entity.
	KindModifyCommand = &Kind{
		Name:        "command-modify",
		Template:    "command-modify",
		Layer:       LayerContract,
		Columns:     SelectAll,
		Source:      "modify",
		Path:        contractDir + "Commands/Modify$EntityCommand.cs",
		Description: "Command modifying an entity",
	}

	// KindDeleteCommand generates the delete command of a table entity.
	KindDeleteCommand = &Kind{
		Name:        "command-delete",
		Template:    "command-delete",
		Layer:       LayerContract,
		Columns:     SelectKey,
		Source:      "delete",
		Path:        contractDir + "Commands/Delete$EntityCommand.cs",
		Description: "Command deleting an entity by key",
	}

	// KindEntity generates the data entity class.
	KindEntity = &Kind{
		Name:        "entity",
		Template:    "entity",
		Layer:       LayerData,
		Columns:     SelectAll,
		ReadOnly:    true,
		Path:        dataDir + "Entities/$Entity.cs",
		Description: "Persistent entity class",
	}

	// KindEntityConfig generates the ORM mapping of an entity.
	KindEntityConfig = &Kind{
		Name:           "entity-config",
		Template:       "entity-config",
		LegacyTemplate: "entity-config-legacy",
		Layer:          LayerData,
		Columns:        SelectNonKey,
		ReadOnly:       true,
		Path:           dataDir + "Configurations/$EntityConfiguration.cs",
		Description:    "ORM mapping of the entity to its storage",
	}

	// KindContext generates the data context of a component.
	KindContext = &Kind{
		Name:           "context",
		Template:       "context",
		LegacyTemplate: "context-legacy",
		Layer:          LayerData,
		Aggregate:      true,
		Path:           "$Platform.$Component.Data/$ComponentContext.cs",
		Description:    "Data context aggregating all entities of a component",
	}

	// KindReader generates the reader of an entity.
	KindReader = &Kind{
		Name:        "reader",
		Template:    "reader",
		Layer:       LayerData,
		Columns:     SelectKey,
		ReadOnly:    true,
		Path:        dataDir + "Readers/$EntityReader.cs",
		Description: "Reader loading entities by key",
	}

	// KindWriter generates the writer of a table entity.
	KindWriter = &Kind{
		Name:        "writer",
		Template:    "writer",
		Layer:       LayerData,
		Columns:     SelectNonKey,
		Source:      "command",
		Path:        dataDir + "Writers/$EntityWriter.cs",
		Description: "Writer applying commands to an entity",
	}

	// KindAdapter generates the adapter mapping entities to contracts.
	KindAdapter = &Kind{
		Name:        "adapter",
		Template:    "adapter",
		Layer:       LayerData,
		Columns:     SelectAll,
		ReadOnly:    true,
		Source:      "entity",
		Path:        dataDir + "Adapters/$EntityAdapter.cs",
		Description: "Adapter mapping entities to contracts",
	}

	// KindService generates the application service of an entity.
	KindService = &Kind{
		Name:        "service",
		Template:    "service",
		Layer:       LayerAPI,
		Columns:     SelectKey,
		ReadOnly:    true,
		Source:      "query",
		Path:        apiDir + "Services/$EntityService.cs",
		Description: "Application service of the entity",
	}

	// KindController generates the API controller of an entity.
	KindController = &Kind{
		Name:        "controller",
		Template:    "controller",
		Layer:       LayerAPI,
		Columns:     SelectKey,
		ReadOnly:    true,
		RouteBound:  true,
		Path:        apiDir + "Controllers/$EntityPluralController.cs",
		Description: "API controller exposing the entity collection",
	}

	// KindClient generates the SDK client of an entity.
	KindClient = &Kind{
		Name:        "client",
		Template:    "client",
		Layer:       LayerSDK,
		Columns:     SelectKey,
		ReadOnly:    true,
		Path:        sdkDir + "$EntityClient.cs",
		Description: "SDK client calling the entity API",
	}

	// AllKinds holds the kinds in generation order: policies, queries,
	// commands, entities and configuration, readers, writers, adapters,
	// services, controllers and clients.
	AllKinds = []*Kind{
		KindPolicy,
		KindQuery,
		KindCreateCommand,
		KindModifyCommand,
		KindDeleteCommand,
		KindEntity,
		KindEntityConfig,
		KindContext,
		KindReader,
		KindWriter,
		KindAdapter,
		KindService,
		KindController,
		KindClient,
	}
)

// Sequence returns a copy of AllKinds.
func Sequence() []*Kind {
	return append([]*Kind(nil), AllKinds...)
}

// LookupKind returns the kind with the given name.
func LookupKind(name string) (*Kind, error) {
	for _, k := range AllKinds {
		if strings.EqualFold(k.Name, name) {
			return k, nil
		}
	}
	return nil, NewConfigError("Kind", name, fmt.Sprintf("unknown artifact kind; use one of %s", strings.Join(KindNames(), ", ")))
}

// SelectKinds resolves kind names and returns them in generation order.
// No names selects all kinds.
func SelectKinds(names ...string) ([]*Kind, error) {
	if len(names) == 0 {
		return Sequence(), nil
	}
	want := make(map[*Kind]bool, len(names))
	for _, n := range names {
		k, err := LookupKind(n)
		if err != nil {
			return nil, err
		}
		want[k] = true
	}
	var kinds []*Kind
	for _, k := range AllKinds {
		if want[k] {
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

// KindNames returns the names of all kinds in generation order.
func KindNames() []string {
	names := make([]string, len(AllKinds))
	for i, k := range AllKinds {
		names[i] = k.Name
	}
	return names
}
