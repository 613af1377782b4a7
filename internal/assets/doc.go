// Package assets provides the stylesheet and HTML templates used to render
// reports and the web form.
//
//	AssetLoader (interface)
//	    ├── EmbeddedLoader    - built-in assets compiled into the binary
//	    ├── FilesystemLoader  - user assets from a directory on disk
//	    └── AssetResolver     - custom first, embedded as fallback
//
// A custom directory mirrors the embedded layout:
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css
//	└── templates/
//	    └── {name}/
//	        ├── report.html   # document template (html and pdf output)
//	        └── form.html     # page served at GET /
//
// Asset names are validated; the filesystem loader also resolves symlinks and
// refuses paths that escape its base directory.
package assets
