package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/legacykeeper/internal/client/api"
	"github.com/dmitrijs2005/legacykeeper/internal/cryptox"
	"github.com/dmitrijs2005/legacykeeper/internal/filex"
	"github.com/dmitrijs2005/legacykeeper/internal/netx"
)

// AddMessage encrypts a multi-line farewell message locally and stores
// the ciphertext.
func (a *App) AddMessage(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return err
	}

	text, err := GetMultiline(a.reader, "Message text", os.Stdout)
	if err != nil {
		return err
	}

	return a.addInlineEntry(ctx, title, "message", text)
}

// AddKey stores an encrypted credential or key string.
func (a *App) AddKey(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return err
	}

	secret, err := GetMultiline(a.reader, "Key or credential", os.Stdout)
	if err != nil {
		return err
	}

	return a.addInlineEntry(ctx, title, "key", secret)
}

func (a *App) addInlineEntry(ctx context.Context, title, category, plaintext string) error {
	ciphertext, err := cryptox.Encrypt(plaintext, a.masterKey)
	if err != nil {
		fmt.Printf("Encryption failed: %v\n", err)
		return err
	}

	entry, err := a.api.AddEntry(ctx, title, category, ciphertext, "")
	if err != nil {
		fmt.Printf("Save failed: %v\n", err)
		return err
	}

	fmt.Printf("Saved entry %s\n", entry.ID)
	return nil
}

// AddDocument encrypts a local file and uploads the ciphertext straight
// to object storage via a presigned URL; only the object key is stored
// with the entry.
func (a *App) AddDocument(ctx context.Context) error {
	path, err := GetSimpleText(a.reader, "File path", os.Stdout)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Cannot read file: %v\n", err)
		return err
	}

	ciphertext, err := cryptox.Encrypt(base64.StdEncoding.EncodeToString(data), a.masterKey)
	if err != nil {
		fmt.Printf("Encryption failed: %v\n", err)
		return err
	}

	storageKey, uploadURL, err := a.api.PresignPut(ctx)
	if err != nil {
		fmt.Printf("Upload preparation failed: %v\n", err)
		return err
	}

	if err := netx.UploadToPresignedURL(ctx, uploadURL, []byte(ciphertext)); err != nil {
		fmt.Printf("Upload failed: %v\n", err)
		return err
	}

	entry, err := a.api.AddEntry(ctx, filepath.Base(path), "document", "", storageKey)
	if err != nil {
		fmt.Printf("Save failed: %v\n", err)
		return err
	}

	fmt.Printf("Saved document %s\n", entry.ID)
	return nil
}

// List prints all vault entries.
func (a *App) List(ctx context.Context) error {
	entries, err := a.api.ListEntries(ctx)
	if err != nil {
		fmt.Printf("List failed: %v\n", err)
		return err
	}

	if len(entries) == 0 {
		printlnFn("The vault is empty.")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s  [%s]  %s\n", e.ID, e.Category, e.Title)
	}
	return nil
}

// Show decrypts and prints one entry. Documents are downloaded from
// object storage, decrypted and saved under ./downloads.
func (a *App) Show(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Entry ID", os.Stdout)
	if err != nil {
		return err
	}

	entry, err := a.api.GetEntry(ctx, id)
	if err != nil {
		fmt.Printf("Fetch failed: %v\n", err)
		return err
	}

	if entry.StorageKey != "" {
		return a.showDocument(ctx, entry)
	}

	plaintext, err := cryptox.Decrypt(entry.EncryptedContent, a.masterKey)
	if err != nil {
		fmt.Printf("Decryption failed: %v\n", err)
		return err
	}

	fmt.Printf("%s [%s]\n%s\n", entry.Title, entry.Category, plaintext)
	return nil
}

func (a *App) showDocument(ctx context.Context, entry *api.Entry) error {
	downloadURL, err := a.api.PresignGet(ctx, entry.ID)
	if err != nil {
		fmt.Printf("Download preparation failed: %v\n", err)
		return err
	}

	ciphertext, err := netx.DownloadFromPresignedURL(ctx, downloadURL)
	if err != nil {
		fmt.Printf("Download failed: %v\n", err)
		return err
	}

	encoded, err := cryptox.Decrypt(string(ciphertext), a.masterKey)
	if err != nil {
		fmt.Printf("Decryption failed: %v\n", err)
		return err
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		fmt.Printf("Decoding failed: %v\n", err)
		return err
	}

	dir, err := filex.EnsureSubDir("downloads")
	if err != nil {
		fmt.Printf("Cannot create downloads directory: %v\n", err)
		return err
	}

	path, err := filex.SaveFile(dir, entry.Title, data)
	if err != nil {
		fmt.Printf("Save failed: %v\n", err)
		return err
	}

	fmt.Printf("Saved decrypted document to %s\n", path)
	return nil
}

// Delete removes an entry.
func (a *App) Delete(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Entry ID", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.DeleteEntry(ctx, id); err != nil {
		fmt.Printf("Delete failed: %v\n", err)
		return err
	}

	printlnFn("Deleted.")
	return nil
}
