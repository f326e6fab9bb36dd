package rubymine

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/gmalette/rubymine-configurator/pkg/xmlpatch"
)

// Data-source configuration is split by the IDE across two files: the
// shareable connection descriptor and the local introspection state. Both
// halves reference the same data source through a shared uuid attribute.
const (
	DataSourcesFileName      = "dataSources.xml"
	DataSourcesLocalFileName = "dataSources.local.xml"
)

var (
	dataSourceContainer = xmlpatch.ContainerSpec{
		Tag:   "component",
		Attr:  "name",
		Value: "DataSourceManagerImpl",
	}
	dataSourceLocalContainer = xmlpatch.ContainerSpec{
		Tag:   "component",
		Attr:  "name",
		Value: "dataSourceStorageLocal",
	}
)

// IntrospectionSchemas is the fixed set of logical schemas the IDE is told
// to introspect.
var IntrospectionSchemas = []string{
	"app_development",
	"app_test",
	"information_schema",
}

// DataSourcePair holds the two merged documents and the identifier they
// share.
type DataSourcePair struct {
	Main  []byte
	Local []byte
	UUID  string
}

// UpsertDataSources merges the data-source descriptor into both prior
// documents (either may be nil). The shared uuid is stable across re-runs:
// an identifier found in either prior document for the same-named data
// source is reused; a new one is minted only when none exists.
func UpsertDataSources(oldMain, oldLocal []byte, f DataSourceFacts) (*DataSourcePair, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	id := f.PreviousUUID
	if id == "" {
		if found, ok := RecoverUUID(oldMain, f.Name); ok {
			id = found
		} else if found, ok := RecoverUUID(oldLocal, f.Name); ok {
			id = found
		} else {
			id = uuid.NewString()
		}
	}

	main, err := xmlpatch.UpsertEntry(oldMain, xmlpatch.UpsertSpec{
		Container: dataSourceContainer,
		EntryTag:  "data-source",
		Key:       f.Name,
		Identity:  dataSourceIdentity,
		Build:     func() *etree.Element { return buildDataSourceEntry(f, id) },
		Skeleton:  dataSourceSkeleton,
	})
	if err != nil {
		return nil, fmt.Errorf("merging %s: %w", DataSourcesFileName, err)
	}

	local, err := xmlpatch.UpsertEntry(oldLocal, xmlpatch.UpsertSpec{
		Container: dataSourceLocalContainer,
		EntryTag:  "data-source",
		Key:       f.Name,
		Identity:  dataSourceIdentity,
		Build:     func() *etree.Element { return buildDataSourceLocalEntry(f, id) },
		Skeleton:  xmlpatch.NewSkeleton("project", map[string]string{"version": "4"}, dataSourceLocalContainer),
	})
	if err != nil {
		return nil, fmt.Errorf("merging %s: %w", DataSourcesLocalFileName, err)
	}

	return &DataSourcePair{Main: main, Local: local, UUID: id}, nil
}

// RecoverUUID finds the uuid of a data-source named name in a prior
// document. Unparseable or absent documents simply yield no identifier;
// the merge proper surfaces any parse error.
func RecoverUUID(old []byte, name string) (string, bool) {
	if len(old) == 0 {
		return "", false
	}
	doc, err := xmlpatch.Parse(old)
	if err != nil {
		return "", false
	}
	found := findDataSource(doc.Root(), name)
	if found == nil {
		return "", false
	}
	id := found.SelectAttrValue("uuid", "")
	return id, id != ""
}

func findDataSource(el *etree.Element, name string) *etree.Element {
	if el.Tag == "data-source" && el.SelectAttrValue("name", "") == name {
		return el
	}
	for _, child := range el.ChildElements() {
		if found := findDataSource(child, name); found != nil {
			return found
		}
	}
	return nil
}

// dataSourceIdentity keys existing entries by their name attribute.
func dataSourceIdentity(el *etree.Element) (string, bool) {
	name := el.SelectAttrValue("name", "")
	return name, name != ""
}

// dataSourceSkeleton needs extra container attributes, so it does not go
// through the generic skeleton constructor.
func dataSourceSkeleton() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("project")
	root.CreateAttr("version", "4")
	component := root.CreateElement("component")
	component.CreateAttr("name", dataSourceContainer.Value)
	component.CreateAttr("format", "xml")
	component.CreateAttr("multifile-model", "true")
	return doc
}

func buildDataSourceEntry(f DataSourceFacts, id string) *etree.Element {
	ds := etree.NewElement("data-source")
	ds.CreateAttr("source", "LOCAL")
	ds.CreateAttr("name", f.Name)
	ds.CreateAttr("uuid", id)
	ds.CreateElement("driver-ref").SetText("mysql.8")
	ds.CreateElement("synchronize").SetText("true")
	ds.CreateElement("jdbc-driver").SetText("com.mysql.cj.jdbc.Driver")
	ds.CreateElement("jdbc-url").SetText(fmt.Sprintf("jdbc:mysql://%s:%s", f.Host, f.Port))
	ds.CreateElement("user-name").SetText(f.User)
	ds.CreateElement("working-dir").SetText("$ProjectFileDir$")
	return ds
}

func buildDataSourceLocalEntry(f DataSourceFacts, id string) *etree.Element {
	ds := etree.NewElement("data-source")
	ds.CreateAttr("name", f.Name)
	ds.CreateAttr("uuid", id)

	info := ds.CreateElement("database-info")
	info.CreateAttr("product", "MySQL")
	info.CreateAttr("version", "8.0")
	info.CreateAttr("jdbc-version", "4.2")
	info.CreateAttr("driver-name", "MySQL Connector/J")
	info.CreateAttr("dbms", "MYSQL")

	scope := ds.CreateElement("schema-mapping").CreateElement("introspection-scope")
	for _, schema := range IntrospectionSchemas {
		node := scope.CreateElement("node")
		node.CreateAttr("kind", "schema")
		node.CreateAttr("qname", schema)
	}
	return ds
}
