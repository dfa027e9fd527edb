package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordJob(t *testing.T) {
	before := testutil.ToFloat64(JobRunsTotal.WithLabelValues("test-job", "failure"))
	RecordJob("test-job", errors.New("boom"), time.Second)
	RecordJob("test-job", nil, time.Second)

	assert.Equal(t, before+1, testutil.ToFloat64(JobRunsTotal.WithLabelValues("test-job", "failure")))
	assert.Equal(t, float64(1), testutil.ToFloat64(JobRunsTotal.WithLabelValues("test-job", "success")))
}

func TestRecordImport(t *testing.T) {
	RecordImport("test-service", 3)
	RecordImport("test-service", 2)
	assert.Equal(t, float64(5), testutil.ToFloat64(ArticlesImported.WithLabelValues("test-service")))
}

func TestRecordRequest(t *testing.T) {
	RecordRequest("/test", "200", 10*time.Millisecond)
	assert.Equal(t, float64(1), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/test", "200")))
}
