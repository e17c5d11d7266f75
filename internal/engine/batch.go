package engine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"docmapper/internal/docpath"
	"docmapper/internal/mapping"
)

// ErrInvalidCollection is returned when a Collection has an empty Items or
// Into path.
var ErrInvalidCollection = errors.New("invalid collection")

// TransformEach applies rules to every input independently, running up to the
// configured concurrency at once. Results are returned in input order.
// When ctx is cancelled no further inputs are started and ctx.Err() is
// returned.
func (e *Engine) TransformEach(ctx context.Context, inputs []any, rules []mapping.MappingRule) ([]*Result, error) {
	p, err := compile(rules)
	if err != nil {
		return nil, err
	}

	return e.runEach(ctx, p, inputs)
}

func (e *Engine) runEach(ctx context.Context, p *plan, inputs []any) ([]*Result, error) {
	results := make([]*Result, len(inputs))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(e.concurrency)

	for i, input := range inputs {
		if egCtx.Err() != nil {
			break
		}

		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			res, err := e.run(p, input)
			if err != nil {
				return fmt.Errorf("document %d: %w", i, err)
			}

			results[i] = res

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.logger.Info("batch transformed", zap.Int("documents", len(inputs)), zap.Int("rules", len(p.steps)))

	return results, nil
}

// Collection selects a list inside a document whose elements are transformed
// one by one. The per-element outputs are written as a list at Into.
type Collection struct {
	Items mapping.Path
	Into  mapping.Path
}

// CollectionResult holds the combined output and the per-element results.
type CollectionResult struct {
	Output   map[string]any `json:"output"`
	Elements []*Result      `json:"elements"`
	// Fallback is true when Items did not address a list and the whole
	// document was transformed instead.
	Fallback bool `json:"fallback,omitempty"`
	// Dropped lists the indexes of list elements that are not objects. They
	// are left out of Elements and of the output list.
	Dropped []int `json:"dropped,omitempty"`

	// positions maps Elements back to indexes in the input list.
	positions []int
}

// Failed reports whether any rule failed for any element.
func (r *CollectionResult) Failed() bool {
	for _, el := range r.Elements {
		if len(el.Failed()) > 0 {
			return true
		}
	}

	return false
}

// Err joins the failures of all elements.
func (r *CollectionResult) Err() error {
	errs := make([]error, 0, len(r.Elements))
	for i, el := range r.Elements {
		if err := el.Err(); err != nil {
			if i < len(r.positions) {
				i = r.positions[i]
			}

			errs = append(errs, fmt.Errorf("element %d: %w", i, err))
		}
	}

	return errors.Join(errs...)
}

// TransformCollection applies rules to every element of the list at c.Items
// and writes the outputs, in order, as a list at c.Into. When c.Items does not
// resolve to a list, rules are applied to the whole document and the result
// is reported with Fallback set.
func (e *Engine) TransformCollection(ctx context.Context, input any, rules []mapping.MappingRule, c Collection) (*CollectionResult, error) {
	if c.Items.IsEmpty() || c.Into.IsEmpty() {
		return nil, fmt.Errorf("%w: items and into paths are required", ErrInvalidCollection)
	}

	p, err := compile(rules)
	if err != nil {
		return nil, err
	}

	raw, _ := docpath.Get(input, c.Items)

	items, ok := raw.([]any)
	if !ok {
		e.logger.Debug("collection not found, transforming whole document", zap.Stringer("items", c.Items))

		res, err := e.run(p, input)
		if err != nil {
			return nil, err
		}

		return &CollectionResult{Output: res.Output, Elements: []*Result{res}, Fallback: true}, nil
	}

	var (
		objects   []any
		positions []int
		dropped   []int
	)

	for i, item := range items {
		if _, ok := item.(map[string]any); !ok {
			dropped = append(dropped, i)
			continue
		}

		objects = append(objects, item)
		positions = append(positions, i)
	}

	if len(dropped) > 0 {
		e.logger.Debug("collection elements dropped", zap.Stringer("items", c.Items), zap.Ints("indexes", dropped))
	}

	elements, err := e.runEach(ctx, p, objects)
	if err != nil {
		return nil, err
	}

	outputs := make([]any, len(elements))
	for i, el := range elements {
		outputs[i] = el.Output
	}

	output := make(map[string]any)
	if err := docpath.Set(output, c.Into, outputs); err != nil {
		return nil, err
	}

	return &CollectionResult{Output: output, Elements: elements, Dropped: dropped, positions: positions}, nil
}
