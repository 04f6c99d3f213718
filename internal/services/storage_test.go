package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResumeStorageUpload(t *testing.T) {
	var gotFolder, gotPublicID, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		gotFolder = r.FormValue("folder")
		gotPublicID = r.FormValue("public_id")

		if file, _, err := r.FormFile("file"); assert.NoError(t, err) {
			defer file.Close()
			data, err := io.ReadAll(file)
			assert.NoError(t, err)
			gotBody = string(data)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"public_id": "` + gotFolder + `/` + gotPublicID + `"}`))
	}))
	defer server.Close()

	storage, err := NewResumeStorage("demo", "key", "secret")
	require.NoError(t, err)
	storage.cld.Upload.Config.API.UploadPrefix = server.URL

	owner := uuid.New()
	path, err := storage.Upload(context.Background(), owner, strings.NewReader("plain text resume"), "resume.txt")
	require.NoError(t, err)

	assert.Equal(t, "plain text resume", gotBody)
	assert.Equal(t, "resumes/"+owner.String(), gotFolder)
	assert.True(t, strings.HasSuffix(gotPublicID, ".txt"))
	assert.Equal(t, gotFolder+"/"+gotPublicID, path)
	assert.True(t, ResumeBelongsTo(path, owner))
}

func TestResumeBelongsTo(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	assert.True(t, ResumeBelongsTo("resumes/"+owner.String()+"/abc.txt", owner))
	assert.False(t, ResumeBelongsTo("resumes/"+other.String()+"/abc.txt", owner))
	assert.False(t, ResumeBelongsTo("resumes/abc.txt", owner))
	assert.False(t, ResumeBelongsTo("", owner))
}
