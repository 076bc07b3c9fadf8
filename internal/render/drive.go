package render

import (
	"regexp"
	"strings"
)

var bareDriveID = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// DriveViewerURL turns a Google Drive link or file id into an embeddable preview URL.
// Unrecognized links are returned unchanged; an empty link becomes "#".
func DriveViewerURL(link string) string {
	if link == "" {
		return "#"
	}

	fileID := ""
	switch {
	case strings.Contains(link, "/d/"):
		rest := strings.SplitN(link, "/d/", 2)[1]
		fileID = strings.SplitN(rest, "/", 2)[0]
	case strings.Contains(link, "id="):
		rest := strings.SplitN(link, "id=", 2)[1]
		fileID = strings.SplitN(rest, "&", 2)[0]
	case bareDriveID.MatchString(link):
		fileID = link
	}

	if fileID != "" {
		return "https://drive.google.com/file/d/" + fileID + "/preview"
	}
	return link
}
