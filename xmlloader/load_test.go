package xmlloader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-asterix/gobelix/descriptor"
)

const testCategoryXML = `<?xml version="1.0"?>
<Category id="048" ver="1.21" name="Monoradar Target Reports">
  <DataItem id="010" mandatory="true">
    <DataItemName>Data Source Identifier</DataItemName>
    <DataItemFormat desc="SAC/SIC">
      <Fixed length="2">
        <Bits from="16" to="9">
          <BitsShortName>SAC</BitsShortName>
        </Bits>
        <Bits from="8" to="1">
          <BitsShortName>SIC</BitsShortName>
        </Bits>
      </Fixed>
    </DataItemFormat>
  </DataItem>
  <DataItem id="070">
    <DataItemName>Mode-3/A Code</DataItemName>
    <DataItemFormat desc="Octal Mode-3/A">
      <Fixed length="2">
        <Bits from="12" to="1" encoding="octal">
          <BitsShortName>V</BitsShortName>
        </Bits>
      </Fixed>
    </DataItemFormat>
  </DataItem>
  <DataItem id="230">
    <DataItemName>Communications Capability</DataItemName>
    <DataItemFormat desc="Compound">
      <Compound>
        <Fixed length="2">
          <Bits from="16" to="9" encoding="signed">
            <BitsShortName>COM</BitsShortName>
          </Bits>
        </Fixed>
      </Compound>
    </DataItemFormat>
  </DataItem>
  <UAP>
    <UAPItem frn="1">010</UAPItem>
    <UAPItem frn="2">070</UAPItem>
    <UAPItem frn="3">230</UAPItem>
    <UAPItem frn="4">-</UAPItem>
  </UAP>
</Category>`

func TestLoadCategoryFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cat048.xml")
	if err := os.WriteFile(path, []byte(testCategoryXML), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	lib := descriptor.NewLibrary()
	if err := LoadCategory(lib, path); err != nil {
		t.Fatalf("LoadCategory() error = %v", err)
	}

	cd, ok := lib.Lookup(48)
	if !ok {
		t.Fatal("Lookup(48) not found")
	}
	if cd.Version != "1.21" {
		t.Errorf("Version = %q, want 1.21", cd.Version)
	}

	item, ok := cd.Item("I048/010")
	if !ok {
		t.Fatal("Item(I048/010) not found")
	}
	if item.Format.Kind != descriptor.Fixed || item.Format.Length != 2 {
		t.Errorf("I048/010 format = %+v, want Fixed length 2", item.Format)
	}
	if len(item.Format.Bits) != 2 || item.Format.Bits[0].Name != "SAC" {
		t.Errorf("I048/010 bits = %+v", item.Format.Bits)
	}

	if len(cd.Mandatory) != 1 || cd.Mandatory[0] != "I048/010" {
		t.Errorf("Mandatory = %v, want [I048/010]", cd.Mandatory)
	}

	octalItem, ok := cd.Item("I048/070")
	if !ok || octalItem.Format.Bits[0].Encoding != descriptor.Octal {
		t.Errorf("I048/070 encoding = %+v, want Octal", octalItem.Format)
	}

	compoundItem, ok := cd.Item("I048/230")
	if !ok || compoundItem.Format.Kind != descriptor.Compound || len(compoundItem.Format.SubItems) != 1 {
		t.Fatalf("I048/230 format = %+v, want Compound with 1 sub-item", compoundItem.Format)
	}
	if compoundItem.Format.SubItems[0].ID != "I048/230/1" {
		t.Errorf("compound sub-item id = %q, want I048/230/1", compoundItem.Format.SubItems[0].ID)
	}

	if len(cd.UAP.Slots) != 4 {
		t.Fatalf("UAP slots = %d, want 4", len(cd.UAP.Slots))
	}
	if cd.UAP.Slots[3].ItemID != descriptor.SlotUndefined {
		t.Errorf("UAP slot 4 = %q, want sentinel %q", cd.UAP.Slots[3].ItemID, descriptor.SlotUndefined)
	}
}

func TestLoadFromDirLoadsAllXMLFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cat048.xml"), []byte(testCategoryXML), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	lib := descriptor.NewLibrary()
	if err := LoadFromDir(lib, dir); err != nil {
		t.Fatalf("LoadFromDir() error = %v", err)
	}
	if _, ok := lib.Lookup(48); !ok {
		t.Error("Lookup(48) not found after LoadFromDir")
	}
}

func TestLoadCategoryRejectsUnknownEncoding(t *testing.T) {
	dir := t.TempDir()
	bad := `<Category id="1" ver="1.0">
  <DataItem id="010">
    <DataItemName>x</DataItemName>
    <DataItemFormat>
      <Fixed length="1"><Bits from="8" to="1" encoding="bogus"><BitsShortName>X</BitsShortName></Bits></Fixed>
    </DataItemFormat>
  </DataItem>
  <UAP><UAPItem frn="1">010</UAPItem></UAP>
</Category>`
	path := filepath.Join(dir, "bad.xml")
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	lib := descriptor.NewLibrary()
	if err := LoadCategory(lib, path); err == nil {
		t.Error("LoadCategory() error = nil, want error for unknown encoding")
	}
}
