package pinecone

import (
	"context"
	"fmt"
	"strings"

	"github.com/pinecone-io/go-pinecone/pinecone"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/smartcontent/engine/internal/datasources"
	"github.com/smartcontent/engine/internal/domain"
)

var _ datasources.SemanticSimilarityLister = (*Client)(nil)

// Vectors are stored one-per-chunk with IDs of the form "<contentID>_<n>",
// carrying a content_id metadata field. A content item's search vector is the
// average of its chunk vectors.
type Client struct {
	pinecone *pinecone.Client
	index    *pinecone.Index
}

func NewClient(
	ctx context.Context,
	apiKey string,
	indexName string,
) (*Client, error) {
	pc, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey:     apiKey,
		Headers:    nil,
		Host:       "",
		RestClient: nil,
		SourceTag:  "",
	})
	if err != nil {
		return nil, fmt.Errorf("creating pinecone client: %w", err)
	}

	idx, err := pc.DescribeIndex(ctx, indexName)
	if err != nil {
		return nil, fmt.Errorf("retrieving pinecone index metadata for [%s]: %w", indexName, err)
	}

	return &Client{
		pinecone: pc,
		index:    idx,
	}, nil
}

func (c *Client) ListSimilarContent(
	ctx context.Context,
	contentID string,
	limit int,
) ([]datasources.SimilarContent, error) {
	if limit > 10000 {
		return nil, domain.InvalidInputf("limit value too high [%d]", limit)
	}
	if limit <= 0 {
		return nil, domain.InvalidInputf("limit must be positive, got [%d]", limit)
	}

	idxConn, err := c.pinecone.Index(pinecone.NewIndexConnParams{
		Host:      c.index.Host,
		Namespace: "content",
	})
	if err != nil {
		return nil, domain.Unavailablef("creating pinecone index connection: %v", err)
	}
	defer func() {
		if closeErr := idxConn.Close(); closeErr != nil {
			_ = closeErr
		}
	}()

	searchVector, err := c.getBaseSearchVector(ctx, idxConn, contentID)
	if err != nil {
		return nil, err
	}

	return c.findSimilarContent(ctx, idxConn, contentID, searchVector, limit)
}

func (c *Client) getBaseSearchVector(
	ctx context.Context,
	idxConn *pinecone.IndexConnection,
	contentID string,
) ([]float32, error) {
	baseVectorPrefix := contentID + "_"
	baseVectorLimit := uint32(20)
	baseVectorIDsResp, err := idxConn.ListVectors(ctx, &pinecone.ListVectorsRequest{
		Prefix:          &baseVectorPrefix,
		Limit:           &baseVectorLimit,
		PaginationToken: nil,
	})
	if err != nil {
		return nil, domain.Unavailablef("listing vector IDs for content [%s]: %v", contentID, err)
	}
	if len(baseVectorIDsResp.VectorIds) == 0 {
		return nil, domain.NotFoundf("no vectors found for content [%s]", contentID)
	}

	var baseVectorIDs []string
	for _, id := range baseVectorIDsResp.VectorIds {
		baseVectorIDs = append(baseVectorIDs, *id)
	}

	baseVectorsResp, err := idxConn.FetchVectors(ctx, baseVectorIDs)
	if err != nil {
		return nil, domain.Unavailablef("fetching vectors for content [%s]: %v", contentID, err)
	}

	return averagePineconeVectors(baseVectorsResp.Vectors), nil
}

func (c *Client) findSimilarContent(
	ctx context.Context,
	idxConn *pinecone.IndexConnection,
	excludeID string,
	searchVector []float32,
	limit int,
) ([]datasources.SimilarContent, error) {
	var results []datasources.SimilarContent

	for len(results) < limit {
		foundResult, err := c.searchBatch(ctx, idxConn, excludeID, searchVector, &results, limit)
		if err != nil {
			return nil, err
		}
		if !foundResult {
			break // No more results to find, stop even though we're not at limit
		}
	}

	return results, nil
}

func (c *Client) searchBatch(
	ctx context.Context,
	idxConn *pinecone.IndexConnection,
	excludeID string,
	searchVector []float32,
	results *[]datasources.SimilarContent,
	limit int,
) (bool, error) {
	filter, err := c.createExistingResultsExclusionFilter(excludeID, *results)
	if err != nil {
		return false, err
	}

	resp, err := idxConn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          searchVector,
		TopK:            10,
		MetadataFilter:  filter,
		IncludeValues:   false,
		IncludeMetadata: false,
		SparseValues:    nil,
	})
	if err != nil {
		return false, domain.Unavailablef("querying for similar vectors: %v", err)
	}

	return c.processSearchResults(resp, results, limit)
}

func (c *Client) createExistingResultsExclusionFilter(
	excludeID string,
	results []datasources.SimilarContent,
) (*pinecone.MetadataFilter, error) {
	filterExistingIDs := []any{excludeID}
	for _, result := range results {
		filterExistingIDs = append(filterExistingIDs, result.ID)
	}

	metadataMap := map[string]any{
		"content_id": map[string]any{
			"$nin": filterExistingIDs,
		},
	}

	filter, err := structpb.NewStruct(metadataMap)
	if err != nil {
		return nil, fmt.Errorf("creating metadata filter map: %w", err)
	}
	return filter, nil
}

func (c *Client) processSearchResults(
	resp *pinecone.QueryVectorsResponse,
	results *[]datasources.SimilarContent,
	limit int,
) (bool, error) {
	foundResult := false

	for _, scoredVector := range resp.Matches {
		matchID, err := c.extractContentIDFromVector(scoredVector.Vector.Id)
		if err != nil {
			return false, err
		}

		if c.isDuplicate(matchID, *results) {
			continue
		}

		foundResult = true
		if len(*results) < limit {
			*results = append(*results, datasources.SimilarContent{
				ID:    matchID,
				Score: float64(scoredVector.Score),
			})
		}
	}

	return foundResult, nil
}

func (c *Client) extractContentIDFromVector(vectorID string) (string, error) {
	idx := strings.LastIndex(vectorID, "_")
	if idx <= 0 {
		return "", fmt.Errorf("unexpected pinecone vector ID format [%s]", vectorID)
	}
	return vectorID[:idx], nil
}

func (c *Client) isDuplicate(contentID string, results []datasources.SimilarContent) bool {
	for _, result := range results {
		if result.ID == contentID {
			return true
		}
	}
	return false
}

func averagePineconeVectors(vectors map[string]*pinecone.Vector) []float32 {
	var values [][]float32
	for _, vector := range vectors {
		values = append(values, vector.Values)
	}
	return averageVectors(values)
}

func averageVectors(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}

	result := make([]float32, len(vectors[0]))
	for _, vector := range vectors {
		for i, v := range vector {
			result[i] += v
		}
	}

	for i := range result {
		result[i] /= float32(len(vectors))
	}

	return result
}
