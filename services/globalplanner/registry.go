package globalplanner

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/cbrobotics/regionplanner/logging"
	rutils "github.com/cbrobotics/regionplanner/utils"
)

type (
	// A Constructor builds a planner from its dependencies and config.
	Constructor func(ctx context.Context, deps Dependencies, conf Config, logger logging.Logger) (GlobalPlanner, error)

	// An AttributeMapConverter turns free-form attributes into a model's native config.
	AttributeMapConverter func(attrs rutils.AttributeMap) (interface{}, error)
)

// Registration is how a model is built.
type Registration struct {
	Constructor           Constructor
	AttributeMapConverter AttributeMapConverter
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Registration{}
)

// Register registers a model. It panics on duplicate models or a missing constructor.
func Register(model string, reg Registration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, old := registry[model]; old {
		panic(fmt.Sprintf("trying to register two global planners with same model %s", model))
	}
	if reg.Constructor == nil {
		panic(fmt.Sprintf("cannot register a nil constructor for model %s", model))
	}
	registry[model] = reg
}

// Deregister removes a model. It is meant for tests.
func Deregister(model string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(registry, model)
}

// Lookup returns the registration of a model, if any.
func Lookup(model string) (Registration, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	reg, ok := registry[model]
	return reg, ok
}

// RegisteredModels returns the sorted names of every registered model.
func RegisteredModels() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	models := make([]string, 0, len(registry))
	for model := range registry {
		models = append(models, model)
	}
	sort.Strings(models)
	return models
}

// New validates conf and builds the configured model.
func New(ctx context.Context, deps Dependencies, conf Config, logger logging.Logger) (GlobalPlanner, error) {
	if err := conf.Validate("planner"); err != nil {
		return nil, err
	}
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	reg, _ := Lookup(conf.Model)
	planner, err := reg.Constructor(ctx, deps, conf, logger.Sublogger(conf.Name))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot build %s planner %q", conf.Model, conf.Name)
	}
	return planner, nil
}
