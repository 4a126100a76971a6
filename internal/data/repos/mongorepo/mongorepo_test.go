package mongorepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/pukpuk-backend/internal/data/repos"
	"github.com/yungbote/pukpuk-backend/internal/data/repos/testutil"
)

func TestDemandRepo(t *testing.T) {
	testutil.RunDemandRepoConformance(t, func(t *testing.T) repos.DemandRepo {
		database := testutil.Mongo(t)
		require.NoError(t, EnsureIndexes(context.Background(), database))
		return NewDemandRepo(database, testutil.Logger(t))
	})
}

func TestMetadataRepo(t *testing.T) {
	testutil.RunMetadataRepoConformance(t, NewMetadataRepo(testutil.Mongo(t), testutil.Logger(t)))
}
