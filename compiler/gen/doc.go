// Package gen derives substitution contexts from entity metadata and renders
// the layered artifacts of every entity.
//
// # Architecture
//
// The generation pipeline follows this flow:
//
//	Source.ListEntities (metadata table)
//	        ↓
//	   graph.Index (read-only, built once)
//	        ↓
//	   per entity: Source.Columns (one fetch)
//	        ↓
//	   Projector + field.Table + naming → Context
//	        ↓
//	   Renderer.Render(templateID, Context) → Output.Write(path, text)
//
// # Key Types
//
//   - Generator: Loads metadata once and renders any number of kinds
//   - Kind: An artifact category with its template id and output path pattern
//   - Projector: Parameter, argument, equality and assignment views of a key
//   - Context: Placeholder to text mapping fed to the renderer
//   - Config: Explicit generation configuration built from Options
//
// # Placeholders
//
// Entity contexts carry, among others:
//
//	$Platform $Component $ComponentType $Feature
//	$Entity $EntityPlural $EntityCamel $EntityCamelPlural
//	$EntitySnake $EntityKebab $EntityTitle $EntitySentence
//	$Namespace $NamespacePath $CollectionPath $CollectionSlug $CollectionKey
//	$StorageSchema $StorageTable $StorageStructure $StorageKey
//	$Properties $KeyProperties $ColumnMappings
//	$KeyParameters $KeyArguments $KeySourceArguments
//	$KeyEquality $KeyAssignments $KeyType
//
// Aggregate contexts (one per component) carry $EntitySets, $EntityCount
// and $Features.
//
// # Concurrency
//
// Entities are generated concurrently with errgroup, bounded by
// Config.Workers. Aggregate kinds run after every entity is done. A failure
// stops the dispatch of new entities unless ContinueOnError is set; failures
// are aggregated in the Report.
//
// # Error Handling
//
// The package uses structured error types:
//
//   - TemplateError: Missing template (ErrMissingTemplate)
//   - IOError: Database or file-system failure (ErrIO)
//   - UnresolvedError: Placeholders left in strict mode (ErrUnresolvedPlaceholder)
//   - ConfigError: Configuration errors (ErrMissingConfig)
//   - GenerationError: Failure of an (entity, kind) unit (ErrGenerationFailed)
//
// Metadata inconsistencies and unsupported column types surface as
// schema.MetadataError and field.TypeError wrapped in a GenerationError:
//
//	rep, err := g.Generate(ctx, gen.Sequence())
//	if errors.Is(err, gen.ErrMetadataInconsistency) {
//	    // a declared key column is missing from the live table
//	}
package gen
