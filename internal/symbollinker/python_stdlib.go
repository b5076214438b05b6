package symbollinker

import "strings"

// pythonStandardLibrary lists top-level modules shipped with CPython. External dependencies
// are split on it into standard library and third-party references.
var pythonStandardLibrary = map[string]bool{
	// Text processing
	"string": true, "re": true, "difflib": true, "textwrap": true,
	"unicodedata": true, "stringprep": true, "readline": true, "rlcompleter": true,

	// Binary data
	"struct": true, "codecs": true,

	// Data types
	"datetime": true, "zoneinfo": true, "calendar": true, "collections": true, "heapq": true,
	"bisect": true, "array": true, "weakref": true, "types": true,
	"copy": true, "pprint": true, "reprlib": true, "enum": true, "graphlib": true,

	// Numeric
	"numbers": true, "math": true, "cmath": true, "decimal": true,
	"fractions": true, "random": true, "statistics": true,

	// Functional programming
	"itertools": true, "functools": true, "operator": true,

	// File and directory
	"pathlib": true, "fileinput": true, "stat": true, "filecmp": true,
	"tempfile": true, "glob": true, "fnmatch": true, "linecache": true,
	"shutil": true,

	// Data persistence
	"pickle": true, "copyreg": true, "shelve": true, "marshal": true,
	"dbm": true, "sqlite3": true,

	// Data compression
	"zlib": true, "gzip": true, "bz2": true, "lzma": true, "zipfile": true,
	"tarfile": true,

	// File formats
	"csv": true, "configparser": true, "tomllib": true, "netrc": true, "plistlib": true,

	// Cryptographic
	"hashlib": true, "hmac": true, "secrets": true,

	// OS interface
	"os": true, "io": true, "time": true, "argparse": true, "getopt": true,
	"logging": true, "getpass": true, "curses": true, "platform": true,
	"errno": true, "ctypes": true,

	// Concurrent execution
	"threading": true, "multiprocessing": true, "concurrent": true,
	"subprocess": true, "sched": true, "queue": true, "contextvars": true,
	"asyncio": true,

	// Networking
	"socket": true, "ssl": true, "select": true, "selectors": true,
	"signal": true, "mmap": true,

	// Internet data handling
	"email": true, "json": true, "mailbox": true, "mimetypes": true,
	"base64": true, "binascii": true, "quopri": true,

	// HTML and XML
	"html": true, "xml": true,

	// Internet protocols
	"urllib": true, "http": true, "ftplib": true, "poplib": true,
	"imaplib": true, "smtplib": true, "uuid": true, "socketserver": true,
	"xmlrpc": true, "ipaddress": true, "webbrowser": true, "wsgiref": true,

	// Multimedia
	"wave": true, "colorsys": true,

	// Internationalization
	"gettext": true, "locale": true,

	// Development tools
	"typing": true, "pydoc": true, "doctest": true, "unittest": true,
	"test": true,

	// Debugging and profiling
	"bdb": true, "faulthandler": true, "pdb": true, "profile": true,
	"cProfile": true, "pstats": true, "timeit": true, "trace": true,
	"tracemalloc": true,

	// Runtime services
	"sys": true, "sysconfig": true, "builtins": true, "warnings": true,
	"dataclasses": true, "contextlib": true, "abc": true, "atexit": true,
	"traceback": true, "gc": true, "inspect": true, "site": true,
	"__future__": true,

	// Custom interpreters
	"code": true, "codeop": true,

	// Importing modules
	"zipimport": true, "pkgutil": true, "modulefinder": true, "runpy": true,
	"importlib": true,

	// Language services
	"ast": true, "symtable": true, "token": true, "keyword": true,
	"tokenize": true, "tabnanny": true, "py_compile": true, "compileall": true,
	"dis": true, "pickletools": true,
}

// IsStandardLibrary reports whether an external target belongs to the Python standard library
func IsStandardLibrary(target string) bool {
	top, _, _ := strings.Cut(target, ".")
	return pythonStandardLibrary[top]
}
