package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		want    TaskID
		wantErr bool
	}{
		{name: "number", json: `{"id":17}`, want: TaskID("17")},
		{name: "string", json: `{"id":"abc-3"}`, want: TaskID("abc-3")},
		{name: "numeric string", json: `{"id":"17"}`, want: TaskID("17")},
		{name: "object rejected", json: `{"id":{}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var task Task
			err := json.Unmarshal([]byte(tt.json), &task)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, task.ID)
		})
	}
}

func TestTaskID_Int64(t *testing.T) {
	n, ok := TaskID("42").Int64()
	require.True(t, ok)
	assert.Equal(t, int64(42), n)

	_, ok = TaskID("t-42").Int64()
	assert.False(t, ok)

	_, ok = TaskID("").Int64()
	assert.False(t, ok)
}
