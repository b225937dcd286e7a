// internal/services/storage_service_test.go
package services

import (
	"bytes"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propfolio/brokerage-backend/internal/config"
	"github.com/propfolio/brokerage-backend/internal/utils"
)

// multipartUpload builds an in-memory multipart file the way gin hands one
// to the upload handlers.
func multipartUpload(t *testing.T, filename, content string) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	header := form.File["file"][0]
	file, err := header.Open()
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })

	return file, header
}

func newLocalStorage(t *testing.T) *StorageService {
	t.Helper()
	service, err := NewStorageService(&config.Config{})
	require.NoError(t, err)
	return service
}

func TestUploadFileComputesChecksum(t *testing.T) {
	service := newLocalStorage(t)
	content := "signed sale agreement"
	file, header := multipartUpload(t, "agreement.pdf", content)

	result, err := service.UploadFile(file, header, service.GetDefaultUploadOptions("transaction_documents"))
	require.NoError(t, err)

	assert.Equal(t, utils.HashString(content), result.Checksum)
	assert.Equal(t, int64(len(content)), result.Size)
	assert.True(t, strings.HasPrefix(result.Key, "transactions/documents/"), "key = %s", result.Key)
	assert.True(t, strings.HasSuffix(result.Key, ".pdf"), "key = %s", result.Key)
}

func TestUploadFileRejectsDisallowedType(t *testing.T) {
	service := newLocalStorage(t)
	file, header := multipartUpload(t, "payload.exe", "not a document")

	_, err := service.UploadFile(file, header, service.GetDefaultUploadOptions("transaction_documents"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not allowed")
}

func TestUploadFileRejectsOversizedFile(t *testing.T) {
	service := newLocalStorage(t)
	file, header := multipartUpload(t, "agreement.pdf", strings.Repeat("x", 64))

	_, err := service.UploadFile(file, header, UploadOptions{
		Folder:  "transactions/documents",
		MaxSize: 16,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum")
}

func TestDeleteFileWithoutClientIsNoOp(t *testing.T) {
	service := newLocalStorage(t)
	assert.NoError(t, service.DeleteFile("transactions/documents/gone.pdf"))
}

func TestGeneratePresignedURLRequiresClient(t *testing.T) {
	service := newLocalStorage(t)
	_, err := service.GeneratePresignedURL("transactions/documents/private.pdf", 0)
	assert.Error(t, err)
}
