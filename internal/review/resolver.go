package review

import (
	"github.com/sempozyum/paper-review-service/internal/domain"
	"github.com/sempozyum/paper-review-service/pkg/api"
)

// Resolution is the resolver's output: the status the paper should hold
// after the latest submission. Changed is false when the status keeps its
// pre-submission value. ManualCheck marks a verdict outside the known set.
type Resolution struct {
	Status      api.PaperStatus
	Changed     bool
	ManualCheck bool
}

// Resolve maps the set of latest verdicts plus quorum completeness to the
// paper's next status. The priority rule (REJECT over REVISE over unanimous
// ACCEPT) fires only once every assigned reviewer has voted in the current
// phase; below quorum the status keeps its value no matter how strong any
// single verdict is. The one exception is the first verdict of a round
// moving a PENDING paper to UNDER_REVIEW.
func Resolve(paper *domain.Paper, result domain.AggregationResult) Resolution {
	unchanged := Resolution{Status: paper.Status}

	// An empty assignment snapshot makes the quorum vacuously complete.
	// No decision is possible without reviewers, so refuse to resolve
	// instead of silently accepting.
	if len(paper.ReviewerIDs) == 0 {
		return unchanged
	}

	if !result.QuorumMet {
		if paper.Status == api.PaperStatusPENDING && len(result.LatestByReviewer) > 0 {
			return Resolution{Status: api.PaperStatusUNDERREVIEW, Changed: true}
		}

		return unchanged
	}

	var hasReject, hasRevise, hasUnknown bool

	for _, verdict := range result.LatestByReviewer {
		switch verdict {
		case api.VerdictREJECT:
			hasReject = true
		case api.VerdictREVISE:
			hasRevise = true
		case api.VerdictACCEPT:
		default:
			hasUnknown = true
		}
	}

	switch {
	case hasReject:
		return resolution(paper, api.PaperStatusREJECTED)
	case hasRevise:
		return resolution(paper, api.PaperStatusREVISIONREQUESTED)
	case hasUnknown:
		// The boundary rejects unknown verdicts, so this is a stray log
		// row. Park the paper for manual inspection instead of guessing.
		res := resolution(paper, api.PaperStatusUNDERREVIEW)
		res.ManualCheck = true

		return res
	default:
		return resolution(paper, api.PaperStatusACCEPTED)
	}
}

func resolution(paper *domain.Paper, status api.PaperStatus) Resolution {
	return Resolution{
		Status:  status,
		Changed: paper.Status != status,
	}
}
