package reportstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

const pdfContentType = "application/pdf"

// AzureBlob stores reports as block blobs in one container.
type AzureBlob struct {
	client    *azblob.Client
	container string
}

// NewAzureBlob connects with cfg.ConnectionString when set, otherwise with
// cfg.AccountURL and the default Azure credential chain.
func NewAzureBlob(cfg Config) (*AzureBlob, error) {
	if cfg.Container == "" {
		return nil, errors.New("blob container not specified")
	}
	if cfg.ConnectionString != "" {
		client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
		if err != nil {
			return nil, fmt.Errorf("creating blob client: %w", err)
		}
		return &AzureBlob{client: client, container: cfg.Container}, nil
	}
	if cfg.AccountURL == "" {
		return nil, errors.New("blob store needs a connection string or account URL")
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("resolving azure credential: %w", err)
	}
	return NewAzureBlobWithCredential(cfg.AccountURL, cfg.Container, cred)
}

// NewAzureBlobWithCredential connects to accountURL with an explicit token
// credential.
func NewAzureBlobWithCredential(accountURL, container string, cred azcore.TokenCredential) (*AzureBlob, error) {
	client, err := azblob.NewClient(accountURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("creating blob client: %w", err)
	}
	return &AzureBlob{client: client, container: container}, nil
}

// EnsureContainer creates the container if it does not already exist.
func (a *AzureBlob) EnsureContainer(ctx context.Context) error {
	_, err := a.client.CreateContainer(ctx, a.container, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return fmt.Errorf("creating container %s: %w", a.container, err)
	}
	return nil
}

// Put uploads data as a single blob.
func (a *AzureBlob) Put(ctx context.Context, key string, data []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	_, err := a.client.UploadBuffer(ctx, a.container, key, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: to.Ptr(pdfContentType)},
	})
	if err != nil {
		return fmt.Errorf("uploading %s: %w", key, err)
	}
	return nil
}

// Get downloads the blob stored under key.
func (a *AzureBlob) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	resp, err := a.client.DownloadStream(ctx, a.container, key, nil)
	if err != nil {
		return nil, a.mapErr(key, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return data, nil
}

// Delete removes the blob stored under key.
func (a *AzureBlob) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if _, err := a.client.DeleteBlob(ctx, a.container, key, nil); err != nil {
		return a.mapErr(key, err)
	}
	return nil
}

func (a *AzureBlob) mapErr(key string, err error) error {
	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return fmt.Errorf("blob %s: %w", key, err)
}
