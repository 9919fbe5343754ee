package config

const (
	//? These paths must match the paths in the embed directive

	StaticLocalDir = "static"
	StaticUrlPath  = "/" + StaticLocalDir + "/"

	BlogUrlPath = "/blog/"
	TagsUrlPath = BlogUrlPath + "tags/"

	TemplatesLocalDir = "templates"

	TemplateLayout   = "layout.html"
	TemplatePartials = "partials.html"
	TemplateIndex    = "index.html"
	TemplateBlog     = "blog.html"
	TemplatePost     = "post.html"
	TemplateNotFound = "404.html"
)
