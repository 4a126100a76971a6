package sqlrepo

import (
	"testing"

	"github.com/yungbote/pukpuk-backend/internal/data/repos"
	"github.com/yungbote/pukpuk-backend/internal/data/repos/testutil"
)

func TestDemandRepo(t *testing.T) {
	testutil.RunDemandRepoConformance(t, func(t *testing.T) repos.DemandRepo {
		return NewDemandRepo(testutil.SQLite(t), testutil.Logger(t))
	})
}

func TestMetadataRepo(t *testing.T) {
	testutil.RunMetadataRepoConformance(t, NewMetadataRepo(testutil.SQLite(t), testutil.Logger(t)))
}
