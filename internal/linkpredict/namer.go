package linkpredict

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Namer issues per-job tokens. Tokens combine a millisecond timestamp with a
// random suffix so concurrent jobs never share remote resource names.
type Namer struct {
	now    func() time.Time
	suffix func() string
}

func NewNamer() *Namer {
	return &Namer{now: time.Now, suffix: randomSuffix}
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func (n *Namer) NewToken() string {
	return strconv.FormatInt(n.now().UnixMilli(), 36) + "_" + n.suffix()
}

func ResourcesFor(token string) ResourceSet {
	return ResourceSet{
		Token:        token,
		ProjectionID: "projection_" + token,
		PipelineID:   "pipeline_" + token,
		ModelID:      "model_" + token,
	}
}

func (n *Namer) NewResourceSet() ResourceSet {
	return ResourcesFor(n.NewToken())
}
