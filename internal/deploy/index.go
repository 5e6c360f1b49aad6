package deploy

import (
	"context"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

// Operation IDs the runtime API spec must declare.
const (
	OpDeployView = "deployView"
)

// IndexedOperation holds a resolved OpenAPI operation with its context.
type IndexedOperation struct {
	OperationID  string
	Method       string
	PathTemplate string
	Parameters   []*openapi3.Parameter
	RequestBody  *openapi3.RequestBody
	Responses    *openapi3.Responses
	BaseURL      string
}

// Index is an in-memory index of the runtime API's operations, keyed by
// operationId.
type Index struct {
	operations map[string]IndexedOperation
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{operations: make(map[string]IndexedOperation)}
}

// Load parses the runtime's OpenAPI spec and indexes all operations. The
// configured base URL overrides the spec's servers block when set.
func (idx *Index) Load(specPath, baseURL string) error {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = false

	doc, err := loader.LoadFromFile(specPath)
	if err != nil {
		return fmt.Errorf("openapi: loading %s: %w", specPath, err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return fmt.Errorf("openapi: validating %s: %w", specPath, err)
	}

	if baseURL == "" && len(doc.Servers) > 0 {
		baseURL = doc.Servers[0].URL
	}

	for path, pathItem := range doc.Paths.Map() {
		for method, op := range pathItem.Operations() {
			if op.OperationID == "" {
				continue
			}

			// Merge path-level and operation-level parameters.
			params := make([]*openapi3.Parameter, 0)
			for _, ref := range pathItem.Parameters {
				if ref.Value != nil {
					params = append(params, ref.Value)
				}
			}
			for _, ref := range op.Parameters {
				if ref.Value != nil {
					params = append(params, ref.Value)
				}
			}

			var reqBody *openapi3.RequestBody
			if op.RequestBody != nil && op.RequestBody.Value != nil {
				reqBody = op.RequestBody.Value
			}

			idx.operations[op.OperationID] = IndexedOperation{
				OperationID:  op.OperationID,
				Method:       method,
				PathTemplate: path,
				Parameters:   params,
				RequestBody:  reqBody,
				Responses:    op.Responses,
				BaseURL:      baseURL,
			}
		}
	}

	return nil
}

// GetOperation returns the indexed operation for the given operation ID.
func (idx *Index) GetOperation(operationID string) (IndexedOperation, bool) {
	op, ok := idx.operations[operationID]
	return op, ok
}

// AllOperationIDs returns every indexed operation ID, sorted.
func (idx *Index) AllOperationIDs() []string {
	ids := make([]string, 0, len(idx.operations))
	for id := range idx.operations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
